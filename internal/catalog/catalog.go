// Package catalog resolves heterogeneous service references (external id,
// canonical code, display name) to canonical service codes.
package catalog

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/samanbandara/bank/internal/models"
)

// RefKind classifies a raw service reference once, at the boundary.
type RefKind int

const (
	RefExternalID RefKind = iota
	RefCode
	RefName
)

type Ref struct {
	Kind  RefKind
	Value string
}

var codePattern = regexp.MustCompile(`^sv\d+$`)

// ParseRef classifies a raw reference. UUIDs are external ids, svNN strings
// are codes, anything else is treated as a display name.
func ParseRef(raw string) Ref {
	value := strings.TrimSpace(raw)
	if _, err := uuid.Parse(value); err == nil {
		return Ref{Kind: RefExternalID, Value: value}
	}
	if codePattern.MatchString(strings.ToLower(value)) {
		return Ref{Kind: RefCode, Value: value}
	}
	return Ref{Kind: RefName, Value: value}
}

// Index is a snapshot of the catalog with the three lookup tables used for
// normalization. Build one per request; the catalog is small.
type Index struct {
	byExternalID map[string]string
	byCode       map[string]string
	byName       map[string]string
	services     map[string]models.Service
}

func NewIndex(services []models.Service) *Index {
	ix := &Index{
		byExternalID: make(map[string]string, len(services)),
		byCode:       make(map[string]string, len(services)),
		byName:       make(map[string]string, len(services)),
		services:     make(map[string]models.Service, len(services)),
	}
	for _, svc := range services {
		code := strings.ToLower(svc.Code)
		if code == "" {
			continue
		}
		ix.byCode[code] = code
		ix.services[code] = svc
		if svc.ExternalID != "" {
			ix.byExternalID[strings.ToLower(svc.ExternalID)] = code
		}
		if name := strings.ToLower(svc.DisplayName); name != "" {
			ix.byName[name] = code
		}
	}
	return ix
}

// Resolve maps one reference to a canonical code. The fallback order is
// fixed: external id, then code, then name, then the svNN pattern for codes
// that are not in the catalog yet.
func (ix *Index) Resolve(ref Ref) (string, bool) {
	value := strings.ToLower(ref.Value)
	if value == "" {
		return "", false
	}
	if ref.Kind == RefExternalID {
		if code, ok := ix.byExternalID[value]; ok {
			return code, true
		}
	}
	if code, ok := ix.byCode[value]; ok {
		return code, true
	}
	if code, ok := ix.byName[value]; ok {
		return code, true
	}
	if codePattern.MatchString(value) {
		return value, true
	}
	return "", false
}

// Normalize maps raw references to canonical codes, preserving order and
// duplicates and dropping unknown references silently.
func (ix *Index) Normalize(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if code, ok := ix.Resolve(ParseRef(r)); ok {
			out = append(out, code)
		}
	}
	return out
}

func (ix *Index) Service(code string) (models.Service, bool) {
	svc, ok := ix.services[strings.ToLower(code)]
	return svc, ok
}

// DisplayName returns the service name for a code, falling back to the code
// itself for orphaned references in historical tickets.
func (ix *Index) DisplayName(code string) string {
	if svc, ok := ix.Service(code); ok {
		return svc.DisplayName
	}
	return code
}

const fallbackHandlingMinutes = 5

// AvgMinutes is the mean of the positive average handling minutes across the
// given codes, or the fallback constant when none are positive.
func (ix *Index) AvgMinutes(codes []string) float64 {
	var sum float64
	var n int
	for _, code := range codes {
		svc, ok := ix.Service(code)
		if !ok || svc.AvgHandlingMinutes <= 0 {
			continue
		}
		sum += svc.AvgHandlingMinutes
		n++
	}
	if n == 0 {
		return fallbackHandlingMinutes
	}
	return sum / float64(n)
}
