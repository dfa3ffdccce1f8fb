package entities

import "time"

// Policy holds the lending rules configured for the library.
type Policy struct {
	DefaultDurationDays    int
	DefaultExtensionDays   int
	MaxDurationDays        int
	DueSoonWindow          time.Duration
	MaxConcurrentLoans     int
	MaxRenewals            int
	AllowLibrarianOverride bool
}

func DefaultPolicy() Policy {
	return Policy{
		DefaultDurationDays:    14,
		DefaultExtensionDays:   7,
		MaxDurationDays:        90,
		DueSoonWindow:          72 * time.Hour,
		MaxConcurrentLoans:     1,
		MaxRenewals:            0,
		AllowLibrarianOverride: true,
	}
}

// Normalize fills unset fields from DefaultPolicy. MaxRenewals 0 means
// unbounded and is kept.
func (p Policy) Normalize() Policy {
	defaults := DefaultPolicy()
	if p.DefaultDurationDays <= 0 {
		p.DefaultDurationDays = defaults.DefaultDurationDays
	}
	if p.DefaultExtensionDays <= 0 {
		p.DefaultExtensionDays = defaults.DefaultExtensionDays
	}
	if p.MaxDurationDays <= 0 {
		p.MaxDurationDays = defaults.MaxDurationDays
	}
	if p.DueSoonWindow <= 0 {
		p.DueSoonWindow = defaults.DueSoonWindow
	}
	if p.MaxConcurrentLoans <= 0 {
		p.MaxConcurrentLoans = defaults.MaxConcurrentLoans
	}
	if p.MaxRenewals < 0 {
		p.MaxRenewals = 0
	}
	return p
}

func (p Policy) RenewalsExhausted(count int) bool {
	return p.MaxRenewals > 0 && count >= p.MaxRenewals
}
