package persist

import (
	"log"

	"tweakpanel/tweak"
	"tweakpanel/typedef"
)

// Snapshot captures the current value of every save-flagged control as a
// record set, in registration order.
func Snapshot(reg *tweak.Registry) []SavedRecord {
	var records []SavedRecord
	for _, c := range reg.Controls() {
		if !c.Save {
			continue
		}
		records = append(records, recordFromValue(c.Key(), c.Get()))
	}
	return records
}

// Apply pushes loaded records back into their controls and returns how many
// matched. It writes through the raw setters so loading never marks the
// dataset dirty; unknown keys are logged and skipped.
func Apply(reg *tweak.Registry, records []SavedRecord) int {
	applied := 0
	for _, rec := range records {
		c := reg.Find(rec.Key)
		if c == nil {
			log.Printf("[PERSIST] no control for saved key %q, skipping", rec.Key)
			continue
		}
		if c.Set == nil {
			continue
		}
		v, ok := valueFromRecord(rec)
		if !ok {
			log.Printf("[PERSIST] saved key %q has unknown type %q, skipping", rec.Key, rec.Type)
			continue
		}
		c.Set(v)
		applied++
	}
	return applied
}

func recordFromValue(key string, v typedef.Value) SavedRecord {
	rec := SavedRecord{Key: key, Type: v.Kind.String()}
	switch v.Kind {
	case typedef.KindFloat:
		rec.FloatValue = FixedFloat{V: v.F}
	case typedef.KindBool:
		rec.BoolValue = v.B
	default:
		n := v.Kind.Components()
		rec.VecValue = make([]FixedFloat, n)
		for i := 0; i < n; i++ {
			rec.VecValue[i] = FixedFloat{V: v.Vec[i]}
		}
	}
	return rec
}

func valueFromRecord(rec SavedRecord) (typedef.Value, bool) {
	kind, ok := typedef.ParseValueKind(rec.Type)
	if !ok {
		return typedef.Value{}, false
	}
	v := typedef.Value{Kind: kind}
	switch kind {
	case typedef.KindFloat:
		v.F = rec.FloatValue.V
	case typedef.KindBool:
		v.B = rec.BoolValue
	default:
		for i := 0; i < kind.Components() && i < len(rec.VecValue); i++ {
			v.Vec[i] = rec.VecValue[i].V
		}
	}
	return v, true
}
