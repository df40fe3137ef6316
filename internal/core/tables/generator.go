package tables

import (
	"fmt"

	"github.com/JonMunkholm/dgref/internal/core"
)

// Range of UN numbers guaranteed to resolve in the un-entries table.
const (
	FirstUN = 4
	LastUN  = 3500
)

// classBucket assigns a hazard class to UN numbers in [lower, upper).
type classBucket struct {
	lower int
	upper int
	class string
}

// classBuckets is evaluated top-down, first match wins. Together the buckets
// cover [FirstUN, LastUN].
var classBuckets = []classBucket{
	{lower: 0, upper: 500, class: "1.1D"},
	{lower: 500, upper: 1000, class: "1.4S"},
	{lower: 1000, upper: 1100, class: "2.1"},
	{lower: 1100, upper: 1400, class: "3"},
	{lower: 1400, upper: 1500, class: "4.1"},
	{lower: 1500, upper: 1600, class: "5.1"},
	{lower: 1600, upper: 1800, class: "6.1"},
	{lower: 1800, upper: 1900, class: "8"},
	{lower: 1900, upper: 2000, class: "3"},
	{lower: 2000, upper: 2800, class: "6.1"},
	{lower: 2800, upper: 2900, class: "8"},
	{lower: 2900, upper: 3000, class: "7"},
	{lower: 3000, upper: LastUN + 1, class: "9"},
}

// piDefaults holds the quantity columns copied onto a generated entry.
type piDefaults struct {
	EQ     string
	LQPI   string
	LQMax  string
	PaxPI  string
	PaxMax string
	CaoPI  string
	CaoMax string
}

var forbiddenDefaults = piDefaults{
	EQ:     "E0",
	LQPI:   core.Forbidden,
	LQMax:  core.Forbidden,
	PaxPI:  core.Forbidden,
	PaxMax: core.Forbidden,
	CaoPI:  core.Forbidden,
	CaoMax: core.Forbidden,
}

// defaultsByKey is keyed by "class|pg" with "class" as the fallback key.
var defaultsByKey = map[string]piDefaults{
	"1.4S":    {EQ: "E0", LQPI: core.Forbidden, LQMax: core.Forbidden, PaxPI: "130", PaxMax: "25 kg", CaoPI: "130", CaoMax: "100 kg"},
	"2.1":     {EQ: "E0", LQPI: core.Forbidden, LQMax: core.Forbidden, PaxPI: core.Forbidden, PaxMax: core.Forbidden, CaoPI: "200", CaoMax: "150 kg"},
	"3|I":     {EQ: "E3", LQPI: core.Forbidden, LQMax: core.Forbidden, PaxPI: "351", PaxMax: "1 L", CaoPI: "361", CaoMax: "30 L"},
	"3|II":    {EQ: "E2", LQPI: "Y341", LQMax: "1 L", PaxPI: "353", PaxMax: "5 L", CaoPI: "364", CaoMax: "60 L"},
	"3|III":   {EQ: "E1", LQPI: "Y344", LQMax: "10 L", PaxPI: "355", PaxMax: "60 L", CaoPI: "366", CaoMax: "220 L"},
	"4.1|II":  {EQ: "E2", LQPI: "Y441", LQMax: "5 kg", PaxPI: "445", PaxMax: "15 kg", CaoPI: "448", CaoMax: "50 kg"},
	"4.1|III": {EQ: "E1", LQPI: "Y443", LQMax: "10 kg", PaxPI: "446", PaxMax: "25 kg", CaoPI: "449", CaoMax: "100 kg"},
	"5.1|II":  {EQ: "E2", LQPI: "Y544", LQMax: "2.5 kg", PaxPI: "558", PaxMax: "5 kg", CaoPI: "562", CaoMax: "25 kg"},
	"5.1|III": {EQ: "E1", LQPI: "Y546", LQMax: "10 kg", PaxPI: "559", PaxMax: "25 kg", CaoPI: "563", CaoMax: "100 kg"},
	"6.1|I":   {EQ: "E5", LQPI: core.Forbidden, LQMax: core.Forbidden, PaxPI: "652", PaxMax: "1 L", CaoPI: "658", CaoMax: "30 L"},
	"6.1|II":  {EQ: "E4", LQPI: "Y641", LQMax: "1 L", PaxPI: "654", PaxMax: "5 L", CaoPI: "662", CaoMax: "60 L"},
	"6.1|III": {EQ: "E1", LQPI: "Y642", LQMax: "2 L", PaxPI: "655", PaxMax: "60 L", CaoPI: "663", CaoMax: "220 L"},
	"8|I":     {EQ: "E0", LQPI: core.Forbidden, LQMax: core.Forbidden, PaxPI: "850", PaxMax: "0.5 L", CaoPI: "854", CaoMax: "2.5 L"},
	"8|II":    {EQ: "E2", LQPI: "Y840", LQMax: "0.5 L", PaxPI: "851", PaxMax: "1 L", CaoPI: "855", CaoMax: "30 L"},
	"8|III":   {EQ: "E1", LQPI: "Y841", LQMax: "1 L", PaxPI: "852", PaxMax: "5 L", CaoPI: "856", CaoMax: "60 L"},
	"9":       {EQ: "E1", LQPI: "Y956", LQMax: "30 kg G", PaxPI: "956", PaxMax: "400 kg", CaoPI: "956", CaoMax: "400 kg"},
}

// classLabels maps a class to its hazard label text.
var classLabels = map[string]string{
	"1.1D": "Explosive 1",
	"1.4S": "Explosive 1.4",
	"2.1":  "Flamm. gas",
	"2.2":  "Non-flamm. gas",
	"2.3":  "Toxic gas",
	"3":    "Flamm. liquid",
	"4.1":  "Flamm. solid",
	"5.1":  "Oxidizer",
	"6.1":  "Toxic",
	"7":    "Radioactive",
	"8":    "Corrosive",
	"9":    "Misc.",
}

// classFor returns the hazard class bucket of UN number n.
func classFor(n int) string {
	for _, b := range classBuckets {
		if n >= b.lower && n < b.upper {
			return b.class
		}
	}
	return ""
}

// packingGroupFor derives a packing group from n modulo 3.
func packingGroupFor(n int) string {
	switch n % 3 {
	case 0:
		return "III"
	case 1:
		return "I"
	default:
		return "II"
	}
}

// defaultsFor looks up quantity defaults by class and packing group, then by
// class alone, then falls back to the all-forbidden set.
func defaultsFor(class, pg string) piDefaults {
	if d, ok := defaultsByKey[class+"|"+pg]; ok {
		return d
	}
	if d, ok := defaultsByKey[class]; ok {
		return d
	}
	return forbiddenDefaults
}

// fillerEntry builds the generated entry for UN number n.
func fillerEntry(n int) UNEntry {
	class := classFor(n)
	pg := packingGroupFor(n)
	d := defaultsFor(class, pg)
	return UNEntry{
		UN:     core.FormatUN(n),
		Name:   fmt.Sprintf("Unlisted class %s entry", class),
		Class:  class,
		PG:     pg,
		Label:  classLabels[class],
		EQ:     d.EQ,
		LQPI:   d.LQPI,
		LQMax:  d.LQMax,
		PaxPI:  d.PaxPI,
		PaxMax: d.PaxMax,
		CaoPI:  d.CaoPI,
		CaoMax: d.CaoMax,
		Filler: true,
	}
}

// generateFiller returns one filler entry for every UN number in
// [FirstUN, LastUN] that is not in covered, in ascending order.
func generateFiller(covered map[string]bool) []UNEntry {
	out := make([]UNEntry, 0, max(0, LastUN-FirstUN+1-len(covered)))
	for n := FirstUN; n <= LastUN; n++ {
		if covered[core.FormatUN(n)] {
			continue
		}
		out = append(out, fillerEntry(n))
	}
	return out
}
