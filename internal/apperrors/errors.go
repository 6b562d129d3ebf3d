package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrAssetNotFound indicates that an asset with the given ID is not in the user's portfolio.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrUserNotFound indicates that a user with the given ID or email does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrDuplicateAsset indicates that the asset (or the same address for the same coin)
	// has already been added to the portfolio.
	ErrDuplicateAsset = errors.New("asset has already been added")

	// ErrInvalidAddress indicates that a crypto address does not match its chain format.
	ErrInvalidAddress = errors.New("invalid address format")

	// ErrUnsupportedSymbol indicates that no balance lookup exists for the given coin.
	ErrUnsupportedSymbol = errors.New("unsupported symbol")

	// ErrInvalidTimeRange indicates that a chart range selector is not recognised.
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInvalidCategory indicates an unknown asset category tag.
	ErrInvalidCategory = errors.New("invalid asset category")

	// ErrEmailTaken indicates that a user with the same email already exists.
	ErrEmailTaken = errors.New("a user with this email already exists")

	// ErrInvalidAssetID indicates that an asset ID is neither a UUID nor a SYMBOL-address pair.
	ErrInvalidAssetID = errors.New("invalid asset ID")

	// Validation errors for required fields
	ErrMissingAddress = errors.New("address parameter is required")
	ErrMissingRange   = errors.New("from and to parameters are required")
)

// Authentication errors.
var (
	// ErrInvalidCredentials indicates that the email/password pair did not match a user.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthorized indicates a missing, malformed or expired session token.
	ErrUnauthorized = errors.New("unauthorized")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	// ErrUpstream indicates that an external balance or price provider failed.
	ErrUpstream = errors.New("upstream provider error")

	// ErrFailedToGetVersionInfo indicates that the database version could not be read.
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)
