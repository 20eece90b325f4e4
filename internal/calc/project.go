package calc

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

type Universe string

const (
	UniverseCreature Universe = "creature"
	UniverseSciFi    Universe = "scifi"
)

const (
	TypePlanet = "planet"
	TypePerson = "person"
)

var (
	creatureAttributes = []string{"base_experience", "height", "weight"}
	planetAttributes   = []string{"rotation_period", "orbital_period", "diameter", "gravity", "surface_water", "population"}
	personAttributes   = []string{"height", "mass"}
)

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// ParseUniverse maps a universe name (or one of its catalog aliases) to a
// Universe. Unknown names yield the empty Universe.
func ParseUniverse(name string) Universe {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "creature", "pokemon":
		return UniverseCreature
	case "scifi", "starwars":
		return UniverseSciFi
	default:
		return ""
	}
}

// NormalizeType lower-cases an entity subtype and folds the "people" alias
// into TypePerson.
func NormalizeType(entityType string) string {
	t := strings.ToLower(strings.TrimSpace(entityType))
	if t == "people" {
		return TypePerson
	}
	return t
}

// Whitelist returns the numeric attributes kept for a universe/type pair.
// The returned slice must not be modified.
func Whitelist(universe, entityType string) []string {
	switch ParseUniverse(universe) {
	case UniverseCreature:
		return creatureAttributes
	case UniverseSciFi:
		switch NormalizeType(entityType) {
		case TypePlanet:
			return planetAttributes
		case TypePerson:
			return personAttributes
		}
	}
	return nil
}

// IsWhitelisted reports whether attribute is kept for the universe/type pair.
func IsWhitelisted(universe, entityType, attribute string) bool {
	name := strings.ToLower(strings.TrimSpace(attribute))
	for _, allowed := range Whitelist(universe, entityType) {
		if allowed == name {
			return true
		}
	}
	return false
}

// Project extracts the whitelisted numeric attributes from a raw catalog
// record. Absent or non-numeric fields are omitted, never defaulted.
func Project(raw map[string]any, universe, entityType string) map[string]float64 {
	allowed := Whitelist(universe, entityType)
	attrs := make(map[string]float64, len(allowed))
	for _, name := range allowed {
		value, ok := lookupField(raw, name)
		if !ok {
			continue
		}
		num, ok := toNumber(value)
		if !ok {
			continue
		}
		attrs[name] = num
	}
	return attrs
}

func lookupField(raw map[string]any, name string) (any, bool) {
	if value, ok := raw[name]; ok {
		return value, true
	}
	for key, value := range raw {
		if strings.EqualFold(key, name) {
			return value, true
		}
	}
	return nil, false
}

func toNumber(value any) (float64, bool) {
	var num float64
	switch v := value.(type) {
	case float64:
		num = v
	case float32:
		num = float64(v)
	case int:
		num = float64(v)
	case int32:
		num = float64(v)
	case int64:
		num = float64(v)
	case uint:
		num = float64(v)
	case uint32:
		num = float64(v)
	case uint64:
		num = float64(v)
	case json.Number:
		return parseLeadingFloat(v.String())
	case string:
		return parseLeadingFloat(v)
	default:
		return 0, false
	}
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, false
	}
	return num, true
}

// parseLeadingFloat reads the decimal number at the start of s, ignoring any
// trailing text, so catalog values such as "1 standard" parse as 1.
func parseLeadingFloat(s string) (float64, bool) {
	match := leadingNumber.FindString(strings.TrimSpace(s))
	if match == "" {
		return 0, false
	}
	num, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsInf(num, 0) || math.IsNaN(num) {
		return 0, false
	}
	return num, true
}
