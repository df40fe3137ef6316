package ai

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/dgref/internal/core"
)

const systemPrompt = `You are a dangerous goods specialist for air transport.
Answer from the current edition of the dangerous goods regulations and cite
the relevant section, packing instruction or special provision. If the
question cannot be answered from the regulations, say so.`

// entryColumns are the un-entries columns quoted in audit and verify prompts.
var entryColumns = []string{
	"un", "name", "class", "sub_risk", "pg", "eq",
	"lq_pi", "lq_max", "pax_pi", "pax_max", "cao_pi", "cao_max", "sp",
}

// Shipment describes a consignment to audit.
type Shipment struct {
	// Description is the shipper's free-text description (packaging,
	// quantities, aircraft type).
	Description string `json:"description"`

	// Entries are the dangerous goods list rows the shipment declares.
	Entries []core.Record `json:"-"`
}

func chatPrompt(question string) string {
	return strings.TrimSpace(question)
}

func auditPrompt(s Shipment) string {
	var b strings.Builder
	b.WriteString("Audit the following dangerous goods shipment for air transport. ")
	b.WriteString("List every non-compliance with the regulations and the corrective action.\n\n")
	if d := strings.TrimSpace(s.Description); d != "" {
		fmt.Fprintf(&b, "Shipment: %s\n", d)
	}
	for i, e := range s.Entries {
		fmt.Fprintf(&b, "Item %d: %s\n", i+1, describeRecord(e, entryColumns))
	}
	return b.String()
}

func verifyPrompt(dataset string, rec core.Record) string {
	keys := rec.Keys()
	if dataset == core.DatasetUNEntries {
		keys = entryColumns
	}
	return fmt.Sprintf("Verify this %s record against the current regulations. "+
		"Report any field that differs and give the correct value.\n\n%s",
		dataset, describeRecord(rec, keys))
}

// describeRecord renders the non-empty columns of rec as "key: value" pairs.
func describeRecord(rec core.Record, keys []string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "filler" {
			continue
		}
		if v := rec.Text(k); v != "" {
			parts = append(parts, k+": "+v)
		}
	}
	return strings.Join(parts, "; ")
}
