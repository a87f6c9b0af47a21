// Package asset defines the asset descriptors shared by the token ledger and
// the treasury planner: an asset is either a ledger-native coin identified by
// its denom, or a token identified by its contract address.
package asset

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind discriminates the two asset flavors.
type Kind string

const (
	// KindToken is a contract-backed token asset.
	KindToken Kind = "token"

	// KindNative is a native chain coin identified by denom.
	KindNative Kind = "native"
)

var (
	// ErrInvalidAddress is returned for malformed bech32-style addresses.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidAsset is returned for asset descriptors that are neither a
	// valid token nor a valid native coin.
	ErrInvalidAsset = errors.New("invalid asset")
)

// Address is a ledger account or contract address.
type Address string

// ValidateAddress checks the shape of a ledger address: lowercase
// alphanumeric, 3 to 90 characters, starting with a letter. Cryptographic
// checksum verification belongs to the host ledger, not this module.
func ValidateAddress(addr Address) error {
	s := string(addr)
	if len(s) < 3 || len(s) > 90 {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	if s[0] < 'a' || s[0] > 'z' {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			continue
		}
		return fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return nil
}

// Info describes one asset. Exactly one of Contract or Denom is set,
// according to Kind.
type Info struct {
	Kind     Kind    `json:"kind"`
	Contract Address `json:"contract,omitempty"`
	Denom    string  `json:"denom,omitempty"`
}

// Token builds a token asset descriptor.
func Token(contract Address) Info {
	return Info{Kind: KindToken, Contract: contract}
}

// Native builds a native coin asset descriptor.
func Native(denom string) Info {
	return Info{Kind: KindNative, Denom: denom}
}

// IsToken reports whether the asset is contract-backed.
func (a Info) IsToken() bool { return a.Kind == KindToken }

// IsNative reports whether the asset is a native chain coin.
func (a Info) IsNative() bool { return a.Kind == KindNative }

// Equal reports whether two asset descriptors identify the same asset.
func (a Info) Equal(other Info) bool {
	return a.Kind == other.Kind && a.Contract == other.Contract && a.Denom == other.Denom
}

// Validate checks internal consistency of the descriptor.
func (a Info) Validate() error {
	switch a.Kind {
	case KindToken:
		if a.Denom != "" {
			return fmt.Errorf("%w: token asset with denom", ErrInvalidAsset)
		}
		return ValidateAddress(a.Contract)
	case KindNative:
		if a.Contract != "" {
			return fmt.Errorf("%w: native asset with contract", ErrInvalidAsset)
		}
		if a.Denom == "" {
			return fmt.Errorf("%w: native asset without denom", ErrInvalidAsset)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidAsset, a.Kind)
	}
}

func (a Info) String() string {
	if a.IsNative() {
		return "native:" + a.Denom
	}
	return "token:" + string(a.Contract)
}

// Pair is an ordered two-asset pair. Index 0 is the base asset, index 1 the
// quote asset; the treasury's binding rules are expressed over this ordering.
type Pair [2]Info

// Base returns the first asset of the pair.
func (p Pair) Base() Info { return p[0] }

// Quote returns the second asset of the pair.
func (p Pair) Quote() Info { return p[1] }

// Validate checks both legs of the pair.
func (p Pair) Validate() error {
	for i := range p {
		if err := p[i].Validate(); err != nil {
			return fmt.Errorf("asset %d: %w", i, err)
		}
	}
	if p[0].Equal(p[1]) {
		return fmt.Errorf("%w: identical pair legs", ErrInvalidAsset)
	}
	return nil
}

// Contains reports whether the pair includes the given asset, in either slot.
func (p Pair) Contains(a Info) bool {
	return p[0].Equal(a) || p[1].Equal(a)
}

// MarshalJSON keeps the wire form a two-element array, matching the pair
// binding message shape.
func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]Info(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Pair) UnmarshalJSON(data []byte) error {
	var arr [2]Info
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	*p = Pair(arr)
	return nil
}
