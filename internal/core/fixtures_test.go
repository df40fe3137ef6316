package core

// rec builds a text record from alternating key/value pairs.
func rec(kv ...string) Record {
	fields := make(map[string]Value, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[kv[i]] = Text(kv[i+1])
	}
	return NewRecord(fields)
}

func cols(keys ...string) []Column {
	out := make([]Column, len(keys))
	for i, k := range keys {
		out[i] = Column{Key: k, Label: k, Filterable: true}
	}
	return out
}

func staticDef(key string, columns []Column, rows ...Record) TableDefinition {
	return TableDefinition{
		Info: TableInfo{Key: key, Group: "Test", Label: key, Columns: columns},
		Load: func() []Record { return rows },
	}
}

// fixtureStore holds a miniature copy of every dataset the resolver reads.
func fixtureStore() *Store {
	return NewStore(
		staticDef(DatasetUNEntries, cols("un", "name", "class", "pg", "lq_pi", "pax_pi", "cao_pi", "sp"),
			rec("un", "3480", "name", "Lithium ion batteries", "class", "9", "pg", "", "lq_pi", "Forbidden", "pax_pi", "965", "cao_pi", "965", "sp", "A88 A99"),
			rec("un", "1203", "name", "Gasoline", "class", "3", "pg", "II", "lq_pi", "Y341", "pax_pi", "353", "cao_pi", "364", "sp", "A100"),
			rec("un", "0012", "name", "Cartridges for weapons", "class", "1.4S", "pg", "", "lq_pi", "Forbidden", "pax_pi", "130", "cao_pi", "See 10.5", "sp", ""),
		),
		staticDef(DatasetPackingInstructions, cols("code", "title"),
			rec("code", "130", "title", "Explosives"),
			rec("code", "353", "title", "Flammable liquids"),
			rec("code", "364", "title", "Flammable liquids CAO"),
			rec("code", "965", "title", "Lithium ion batteries"),
			rec("code", "Y341", "title", "Flammable liquids LQ"),
		),
		staticDef(DatasetSpecialProvisions, cols("code", "text"),
			rec("code", "A88", "text", "Prototype batteries"),
			rec("code", "A99", "text", "Large batteries"),
			rec("code", "A100", "text", "Fuel vapours"),
		),
		staticDef(DatasetVariations, cols("code", "owner", "owner_type", "text"),
			rec("code", "USG-01", "owner", "United States", "owner_type", "state", "text", "UN 3480 prohibited as cargo on passenger aircraft."),
			rec("code", "BR-01", "owner", "Brazil", "owner_type", "state", "text", "Baterias de litio requerem aprovacao."),
			rec("code", "XX-01", "owner", "Example Air", "owner_type", "operator", "text", "Class 3 not accepted in checked baggage."),
			rec("code", "XX-02", "owner", "Example Air", "owner_type", "operator", "text", "Lithium metal cells need approval."),
		),
		staticDef(DatasetSegregation, cols("class", "1", "3", "8"),
			rec("class", "1", "1", "-", "3", "X", "8", "X"),
			rec("class", "3", "1", "X", "3", "-", "8", "-"),
		),
	)
}
