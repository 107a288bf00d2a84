package config

import (
	"fmt"
	"strings"

	"ipccli/pkg/contracts/domain"
)

// HXL tag tables for the emitted CSVs. The tag row sits directly beneath the
// header row; a column without a tag gets an empty cell.

// LongHXLTags maps the long-form column names to their HXL tags.
func LongHXLTags() map[string]string {
	return map[string]string{
		"Date of analysis":         "#date+analysed",
		"Country":                  "#country+code",
		"Total country population": "#population",
		"Level 1":                  "#adm1+name",
		"Area":                     "#adm2+name",
		"Validity period":          "#period+type",
		"From":                     "#date+start",
		"To":                       "#date+end",
		"Phase":                    "#severity+phase+type",
		"Number":                   "#affected+num",
		"Percentage":               "#affected+pct",
	}
}

// WideHXLTags maps the wide-form column names to their HXL tags. Wide column
// names are composites over the projection and phase vocabularies, so the
// table is derived rather than written out by hand.
func WideHXLTags() map[string]string {
	tags := map[string]string{
		"Date of analysis":         "#date+analysed",
		"Country":                  "#country+code",
		"Total country population": "#population",
		"Level 1":                  "#adm1+name",
		"Area":                     "#adm2+name",
	}
	for _, proj := range domain.Projections {
		name := strings.ToLower(proj.Name)
		attr := projectionAttribute(proj)
		tags[fmt.Sprintf("%s from", proj.Name)] = fmt.Sprintf("#date+start+%s", attr)
		tags[fmt.Sprintf("%s to", proj.Name)] = fmt.Sprintf("#date+end+%s", attr)
		for _, phase := range domain.Phases {
			if phase.Label == "all" {
				tags[fmt.Sprintf("Population analyzed %s", name)] = fmt.Sprintf("#affected+num+analysed+%s", attr)
				continue
			}
			attrPhase := phaseAttribute(phase)
			tags[fmt.Sprintf("Phase %s number %s", phase.Label, name)] = fmt.Sprintf("#affected+num+%s+%s", attrPhase, attr)
			tags[fmt.Sprintf("Phase %s percentage %s", phase.Label, name)] = fmt.Sprintf("#affected+pct+%s+%s", attrPhase, attr)
		}
	}
	return tags
}

// HAPIHXLTags maps the harmonized export's column names to their HXL tags.
func HAPIHXLTags() map[string]string {
	return map[string]string{
		"location_code":                "#country+code",
		"has_hrp":                      "#meta+has_hrp",
		"in_gho":                       "#meta+in_gho",
		"provider_admin1_name":         "#adm1+name+provider",
		"provider_admin2_name":         "#adm2+name+provider",
		"admin1_code":                  "#adm1+code",
		"admin1_name":                  "#adm1+name",
		"admin2_code":                  "#adm2+code",
		"admin2_name":                  "#adm2+name",
		"admin_level":                  "#adm+level",
		"ipc_phase":                    "#severity+phase+type",
		"ipc_type":                     "#period+type",
		"population_in_phase":          "#affected+num",
		"population_fraction_in_phase": "#affected+pct",
		"reference_period_start":       "#date+start",
		"reference_period_end":         "#date+end",
		"dataset_hdx_id":               "#meta+dataset_id",
		"resource_hdx_id":              "#meta+resource_id",
		"warning":                      "#meta+warning",
		"error":                        "#meta+error",
	}
}

func projectionAttribute(proj domain.Projection) string {
	switch proj.Key {
	case "current":
		return "current"
	case "projected":
		return "projected"
	default:
		return "second_projected"
	}
}

func phaseAttribute(phase domain.Phase) string {
	if phase.Label == "3+" {
		return "p3plus"
	}
	return "p" + phase.Label
}
