package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
)

var addressPatterns = map[string]*regexp.Regexp{
	model.SymbolBTC: regexp.MustCompile(`^(bc1|[13])[a-zA-Z0-9]{25,87}$`),
	model.SymbolETH: regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`),
}

// SupportsAddressLookup reports whether balances of symbol can be looked up by address.
func SupportsAddressLookup(symbol string) bool {
	_, ok := addressPatterns[strings.ToUpper(symbol)]
	return ok
}

// ValidateAddress checks address against the format of its chain.
// Returns ErrMissingAddress for an empty address and ErrUnsupportedSymbol
// when the chain has no known format.
func ValidateAddress(symbol, address string) error {
	if strings.TrimSpace(address) == "" {
		return apperrors.ErrMissingAddress
	}
	pattern, ok := addressPatterns[strings.ToUpper(symbol)]
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrUnsupportedSymbol, symbol)
	}
	if !pattern.MatchString(address) {
		return fmt.Errorf("%w: %s address %q", apperrors.ErrInvalidAddress, strings.ToUpper(symbol), address)
	}
	return nil
}
