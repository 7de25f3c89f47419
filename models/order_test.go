package models

import "testing"

func TestDraftTotal(t *testing.T) {
	d := &Draft{Subtotal: 10500}
	if _, ok := d.Total(); ok {
		t.Error("Total must not be available before the zone is resolved")
	}
	d.Delivery = &Delivery{Zone: "centro", Fee: 500}
	if total, ok := d.Total(); !ok || total != 11000 {
		t.Errorf("Total = %d, %v; want 11000", total, ok)
	}
}

func TestDraftClone(t *testing.T) {
	var nilDraft *Draft
	if nilDraft.Clone() != nil {
		t.Error("Clone of nil must be nil")
	}

	d := &Draft{
		Lines:    []OrderLine{{Quantity: 1, Size: SizeLarge, Flavors: []string{"Calabresa"}}},
		Delivery: &Delivery{Zone: "centro", Fee: 500},
	}
	c := d.Clone()
	c.Lines[0].Flavors[0] = "Portuguesa"
	c.Lines = append(c.Lines, OrderLine{Quantity: 2})
	c.Delivery.Fee = 900

	if d.Lines[0].Flavors[0] != "Calabresa" || len(d.Lines) != 1 || d.Delivery.Fee != 500 {
		t.Errorf("source draft changed through clone: %+v", d)
	}
}

func TestStepIndex(t *testing.T) {
	for i, s := range CollectionSteps {
		if got := StepIndex(s); got != i {
			t.Errorf("StepIndex(%s) = %d, want %d", s, got, i)
		}
	}
	if StepIndex(StepAwaitingProof) != -1 {
		t.Error("awaiting proof is not a collection step")
	}
}
