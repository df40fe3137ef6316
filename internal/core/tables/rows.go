package tables

import (
	"github.com/JonMunkholm/dgref/internal/core"
)

// UNEntry is one row of the dangerous goods list. A UN number appears once
// per packing group or per proper shipping name.
type UNEntry struct {
	UN      string `yaml:"un"`
	Name    string `yaml:"name"`
	Class   string `yaml:"class"`
	SubRisk string `yaml:"sub_risk"`
	PG      string `yaml:"pg"`
	Label   string `yaml:"label"`
	EQ      string `yaml:"eq"`
	LQPI    string `yaml:"lq_pi"`
	LQMax   string `yaml:"lq_max"`
	PaxPI   string `yaml:"pax_pi"`
	PaxMax  string `yaml:"pax_max"`
	CaoPI   string `yaml:"cao_pi"`
	CaoMax  string `yaml:"cao_max"`
	SP      string `yaml:"sp"`
	ERG     string `yaml:"erg"`
	Filler  bool   `yaml:"-"`
}

// Record converts the entry to its column-keyed form.
func (e UNEntry) Record() core.Record {
	return core.NewRecord(map[string]core.Value{
		"un":       core.Text(e.UN),
		"name":     core.Text(e.Name),
		"class":    core.Text(e.Class),
		"sub_risk": core.Text(e.SubRisk),
		"pg":       core.Text(e.PG),
		"label":    core.Text(e.Label),
		"eq":       core.Text(e.EQ),
		"lq_pi":    core.Text(e.LQPI),
		"lq_max":   core.Text(e.LQMax),
		"pax_pi":   core.Text(e.PaxPI),
		"pax_max":  core.Text(e.PaxMax),
		"cao_pi":   core.Text(e.CaoPI),
		"cao_max":  core.Text(e.CaoMax),
		"sp":       core.Text(e.SP),
		"erg":      core.Text(e.ERG),
		"filler":   core.Bool(e.Filler),
	})
}

// PackingInstruction is one packing instruction.
type PackingInstruction struct {
	Code    string `yaml:"code"`
	Title   string `yaml:"title"`
	Mode    string `yaml:"mode"` // passenger, cargo, limited-quantity
	Classes string `yaml:"classes"`
	Summary string `yaml:"summary"`
}

func (p PackingInstruction) Record() core.Record {
	return core.NewRecord(map[string]core.Value{
		"code":    core.Text(p.Code),
		"title":   core.Text(p.Title),
		"mode":    core.Text(p.Mode),
		"classes": core.Text(p.Classes),
		"summary": core.Text(p.Summary),
	})
}

// SpecialProvision is one special provision (A-code).
type SpecialProvision struct {
	Code string `yaml:"code"`
	Text string `yaml:"text"`
}

func (s SpecialProvision) Record() core.Record {
	return core.NewRecord(map[string]core.Value{
		"code": core.Text(s.Code),
		"text": core.Text(s.Text),
	})
}

// Variation is a state or operator variation.
type Variation struct {
	Code      string `yaml:"code"`
	Owner     string `yaml:"owner"`
	OwnerType string `yaml:"owner_type"` // state, operator
	Text      string `yaml:"text"`
}

func (v Variation) Record() core.Record {
	return core.NewRecord(map[string]core.Value{
		"code":       core.Text(v.Code),
		"owner":      core.Text(v.Owner),
		"owner_type": core.Text(v.OwnerType),
		"text":       core.Text(v.Text),
	})
}

// GlossaryTerm is one glossary definition.
type GlossaryTerm struct {
	Term       string `yaml:"term"`
	Definition string `yaml:"definition"`
}

func (g GlossaryTerm) Record() core.Record {
	return core.NewRecord(map[string]core.Value{
		"term":       core.Text(g.Term),
		"definition": core.Text(g.Definition),
	})
}

// SegregationRow is one row of the segregation matrix. Required lists the
// classes that must be segregated from Class.
type SegregationRow struct {
	Class    string   `yaml:"class"`
	Required []string `yaml:"required"`
}

// Record expands the row to one column per matrix class holding "X" when
// segregation is required and "-" otherwise.
func (s SegregationRow) Record() core.Record {
	required := make(map[string]bool, len(s.Required))
	for _, c := range s.Required {
		required[c] = true
	}
	fields := make(map[string]core.Value, len(SegregationClasses)+1)
	fields["class"] = core.Text(s.Class)
	for _, c := range SegregationClasses {
		mark := "-"
		if required[c] {
			mark = "X"
		}
		fields[c] = core.Text(mark)
	}
	return core.NewRecord(fields)
}

// recordable is satisfied by every typed row.
type recordable interface {
	Record() core.Record
}

func toRecords[T recordable](items []T) []core.Record {
	out := make([]core.Record, len(items))
	for i, it := range items {
		out[i] = it.Record()
	}
	return out
}
