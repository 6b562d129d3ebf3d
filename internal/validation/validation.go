package validation

import (
	"fmt"
	"regexp"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/apperrors"
)

// assetIDPattern matches generated UUIDs as well as SYMBOL-address crypto ids.
var assetIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// ValidateAssetID checks that an asset id is non-empty and URL-safe.
func ValidateAssetID(id string) error {
	if !assetIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidAssetID, id)
	}
	return nil
}
