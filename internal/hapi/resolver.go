package hapi

import (
	"fmt"
	"strings"

	"ipccli/internal/admins"
	"ipccli/internal/config"
)

// Resolution is the admin classification of one source row: which provider
// name sits at which admin level, the resolved pcodes, and any warnings
// accumulated on the way. Empty codes with warnings mean the row still goes
// out, just unmatched.
type Resolution struct {
	ProviderAdmin1Name string
	ProviderAdmin2Name string
	Admin1Code         string
	Admin1Name         string
	Admin2Code         string
	Admin2Name         string
	AdminLevel         int
	// Status is a human-readable note of how the country's fields were
	// interpreted, logged once per country after processing.
	Status   string
	Warnings []string
}

func (r *Resolution) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Resolver classifies provider admin names against the per-country exception
// tables and resolves them through the pcode matcher. The feed uses "Level 1"
// and "Area" loosely; several countries report names at the wrong level or in
// the wrong field, and the exception tables say which.
type Resolver struct {
	cfg     config.AdminMatchingConfig
	matcher *admins.Matcher
}

// NewResolver creates a resolver over the exception tables and matcher.
func NewResolver(cfg config.AdminMatchingConfig, matcher *admins.Matcher) *Resolver {
	return &Resolver{cfg: cfg, matcher: matcher}
}

// Resolve classifies one row's provider names. tableLevel is the granularity
// of the source table: 0 national, 1 level 1, 2 area. National rows pass
// through untouched.
func (r *Resolver) Resolve(countryISO3 string, tableLevel int, level1, area string) Resolution {
	res := Resolution{AdminLevel: tableLevel}
	if tableLevel == 0 {
		return res
	}

	switch {
	case containsISO3(r.cfg.Adm1Only, countryISO3):
		// Only the Level 1 names are usable for these countries.
		res.AdminLevel = 1
		res.Status = "Level 1: Admin 1, Area: ignored"
		if area != "" {
			res.warnf("Admin 2: admin level not present for %s|%s", countryISO3, area)
		}
		r.resolveAdmin1(&res, countryISO3, level1, "Level 1")

	case containsISO3(r.cfg.Adm2Only, countryISO3):
		// Level 1 is never populated here; Area carries admin 2 names.
		res.AdminLevel = 2
		res.Status = "Level 1: ignored, Area: Admin 2"
		r.resolveAdmin2(&res, countryISO3, area, "Area", "")

	case containsISO3(r.cfg.Adm2OnlyIncludeAdm1, countryISO3):
		res.Status = "Level 1: Admin 1, Area: Admin 2"
		if tableLevel == 1 {
			res.AdminLevel = 1
			r.resolveAdmin1(&res, countryISO3, level1, "Level 1")
		} else {
			res.AdminLevel = 2
			r.resolveAdmin1(&res, countryISO3, level1, "Level 1")
			r.resolveAdmin2(&res, countryISO3, area, "Area", res.Admin1Code)
		}

	case containsISO3(r.cfg.Adm2InLevel1, countryISO3):
		// Level 1 actually holds admin 2 names for these countries.
		res.AdminLevel = 2
		res.Status = "Level 1: Admin 2, Area: ignored"
		r.resolveAdmin2(&res, countryISO3, level1, "Level 1", "")

	case containsISO3(r.cfg.Adm1InArea, countryISO3):
		// Area actually holds admin 1 names for these countries.
		res.AdminLevel = 1
		res.Status = "Level 1: ignored, Area: Admin 1"
		r.resolveAdmin1(&res, countryISO3, area, "Area")

	default:
		if level1 == "" {
			// An empty Level 1 with a populated Area conventionally means
			// the area is the coarser unit.
			if area == "" {
				res.warnf("Admin 1: ignoring blank Level 1 name in %s", countryISO3)
				res.AdminLevel = 1
				return res
			}
			res.AdminLevel = 1
			res.Status = "Level 1: ignored, Area: Admin 1"
			res.warnf("Admin 1: using Area name as admin 1 in %s", countryISO3)
			r.resolveAdmin1(&res, countryISO3, area, "Area")
			return res
		}
		res.Status = "Level 1: Admin 1, Area: Admin 2"
		r.resolveAdmin1(&res, countryISO3, level1, "Level 1")
		if tableLevel == 2 {
			res.AdminLevel = 2
			r.resolveAdmin2(&res, countryISO3, area, "Area", res.Admin1Code)
		} else {
			res.AdminLevel = 1
		}
	}
	return res
}

func (r *Resolver) resolveAdmin1(res *Resolution, countryISO3, name, field string) {
	if name == "" {
		res.warnf("Admin 1: ignoring blank %s name in %s", field, countryISO3)
		return
	}
	res.ProviderAdmin1Name = name
	if r.ignored(countryISO3, name) {
		res.ProviderAdmin1Name = ""
		res.warnf("Admin 1: cannot match %s|%s", countryISO3, name)
		return
	}

	match := r.matcher.GetPCode(countryISO3, name, 1, "")
	if match == nil {
		res.warnf("Admin 1: could not match %s|%s!", countryISO3, name)
		return
	}
	if !match.Exact {
		if containsName(r.cfg.Adm1Errors, name) {
			res.warnf("Admin 1: ignoring erroneous %s|%s match to %s %s!",
				countryISO3, name, match.Name, match.PCode)
			return
		}
		res.warnf("Admin 1: matching %s|%s to %s %s", countryISO3, name, match.Name, match.PCode)
	}
	res.Admin1Code = match.PCode
	res.Admin1Name = match.Name
}

func (r *Resolver) resolveAdmin2(res *Resolution, countryISO3, name, field, parentPCode string) {
	if name == "" {
		res.warnf("Admin 2: ignoring blank %s name in %s", field, countryISO3)
		return
	}
	res.ProviderAdmin2Name = name
	if r.ignored(countryISO3, name) {
		res.ProviderAdmin2Name = ""
		res.warnf("Admin 2: cannot match %s|%s", countryISO3, name)
		return
	}

	match := r.matcher.GetPCode(countryISO3, name, 2, parentPCode)
	if match == nil {
		res.warnf("Admin 2: could not match %s|%s!", countryISO3, name)
		return
	}
	if !match.Exact {
		if containsName(r.cfg.Adm2Errors, name) {
			res.warnf("Admin 2: ignoring erroneous %s|%s match to %s %s!",
				countryISO3, name, match.Name, match.PCode)
			return
		}
		res.warnf("Admin 2: matching %s|%s to %s %s", countryISO3, name, match.Name, match.PCode)
	}
	res.Admin2Code = match.PCode
	res.Admin2Name = match.Name
}

// ignored reports whether name hits the global or country-specific ignore
// patterns (case-insensitive substring match).
func (r *Resolver) ignored(countryISO3, name string) bool {
	lower := strings.ToLower(name)
	for _, pattern := range r.cfg.IgnorePatterns {
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return true
		}
	}
	for _, pattern := range r.cfg.CountryIgnorePatterns[strings.ToUpper(countryISO3)] {
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

func containsISO3(list []string, iso3 string) bool {
	for _, item := range list {
		if strings.EqualFold(item, iso3) {
			return true
		}
	}
	return false
}

func containsName(list []string, name string) bool {
	for _, item := range list {
		if item == name {
			return true
		}
	}
	return false
}
