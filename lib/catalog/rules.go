package catalog

// MelonFieldRules covers the string-encoded columns that
// ticket.melon.com embeds in its prodList payloads.
//
// seatGradeJson carries the price tiers, saleTypeJson the per-channel
// sale windows grouped by point of contact, perfRelatJson related
// performances.
func MelonFieldRules() []FieldRule {
	return []FieldRule{
		{
			Field:  "seatGradeJson",
			Target: "seatGrades",
			Derive: DeriveListAt("data", "list"),
		},
		{
			Field:  "saleTypeJson",
			Target: "saleTypes",
			Derive: DeriveGroupFanout(FanoutRule{
				Path:      []string{"data", "list"},
				GroupKeys: []string{"pocName", "pocCode"},
				ItemsKey:  "saleTypeCodeList",
			}),
		},
		{
			Field:  "perfRelatJson",
			Target: "perfRelat",
			Derive: DeriveListAt("data", "list"),
		},
	}
}
