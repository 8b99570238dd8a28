// Package rules loads discount codes from a YAML file.
package rules

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dwikikusuma/videoshop-cart/internal/cart/app"
	"github.com/dwikikusuma/videoshop-cart/internal/cart/domain"
	"gopkg.in/yaml.v3"
)

type fileRule struct {
	Code      string     `yaml:"code"`
	Kind      string     `yaml:"kind"`
	Value     int64      `yaml:"value"`
	ExpiresAt *time.Time `yaml:"expires_at,omitempty"`
}

type document struct {
	Discounts []fileRule `yaml:"discounts"`
}

type rule struct {
	discount  domain.Discount
	expiresAt time.Time
}

// Set is an immutable table of discount codes keyed by upper-case code.
type Set struct {
	rules map[string]rule
	now   func() time.Time
}

// Load reads path. A missing file or an empty path yields an empty set.
func Load(path string) (*Set, error) {
	if strings.TrimSpace(path) == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Parse(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("read discount rules: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Set, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse discount rules: %w", err)
	}

	s := &Set{rules: make(map[string]rule, len(doc.Discounts)), now: time.Now}
	for i, fr := range doc.Discounts {
		code := strings.ToUpper(strings.TrimSpace(fr.Code))
		if code == "" {
			return nil, fmt.Errorf("discount rule %d: code is required", i)
		}
		if _, dup := s.rules[code]; dup {
			return nil, fmt.Errorf("discount rule %d: duplicate code %q", i, code)
		}

		kind := domain.DiscountKind(strings.ToLower(strings.TrimSpace(fr.Kind)))
		switch kind {
		case domain.DiscountFixed:
			if fr.Value < 0 {
				return nil, fmt.Errorf("discount rule %q: fixed value cannot be negative", code)
			}
		case domain.DiscountPercent:
			if fr.Value < 0 || fr.Value > 100 {
				return nil, fmt.Errorf("discount rule %q: percent must be within 0..100", code)
			}
		default:
			return nil, fmt.Errorf("discount rule %q: unknown kind %q", code, fr.Kind)
		}

		r := rule{discount: domain.Discount{Code: code, Kind: kind, Value: fr.Value}}
		if fr.ExpiresAt != nil {
			r.expiresAt = *fr.ExpiresAt
		}
		s.rules[code] = r
	}
	return s, nil
}

func (s *Set) Len() int { return len(s.rules) }

func (s *Set) Lookup(ctx context.Context, code string) (domain.Discount, error) {
	r, ok := s.rules[strings.ToUpper(code)]
	if !ok {
		return domain.Discount{}, app.ErrInvalidDiscountCode
	}
	if !r.expiresAt.IsZero() && !s.now().Before(r.expiresAt) {
		return domain.Discount{}, fmt.Errorf("%w: %s expired", app.ErrInvalidDiscountCode, r.discount.Code)
	}
	return r.discount, nil
}
