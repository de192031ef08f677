package editor

import (
	"errors"
	"testing"
)

// recordingConfirmer answers every prompt with a canned verdict and
// remembers the prompts it saw.
type recordingConfirmer struct {
	answer  bool
	prompts []string
}

func (c *recordingConfirmer) Confirm(prompt string) bool {
	c.prompts = append(c.prompts, prompt)
	return c.answer
}

func TestSelectNodeRequiresSchema(t *testing.T) {
	if _, err := SelectNode(nil, nil, Parent{}, nil); !errors.Is(err, ErrNoSchema) {
		t.Errorf("got %v, want ErrNoSchema", err)
	}
}

func TestDeleteFromMapParent(t *testing.T) {
	parent := map[string]any{
		"main":  map[string]any{"cn": "main"},
		"other": map[string]any{"cn": "other"},
	}
	sel, err := SelectNode(parent["main"], connSchema(), Parent{Node: parent, Key: "main"}, nil)
	if err != nil {
		t.Fatalf("SelectNode: %v", err)
	}

	confirmer := &recordingConfirmer{answer: true}
	deleted, err := sel.Delete(confirmer, nil)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("Delete reported false despite confirmation")
	}

	if _, ok := parent["main"]; ok {
		t.Error("entry still present after delete")
	}
	if _, ok := parent["other"]; !ok {
		t.Error("unrelated entry removed")
	}
	if sel.Node != nil || sel.Schema != nil {
		t.Error("selection context not cleared after delete")
	}
	if len(confirmer.prompts) != 1 || confirmer.prompts[0] != "Do you really want to delete this Connection?" {
		t.Errorf("prompt = %v", confirmer.prompts)
	}
}

func TestDeleteFromArrayParentWritesBack(t *testing.T) {
	device := map[string]any{
		"dicomNetworkConnection": []any{
			map[string]any{"cn": "a"},
			map[string]any{"cn": "b"},
			map[string]any{"cn": "c"},
		},
	}
	arr := device["dicomNetworkConnection"].([]any)

	sel, err := SelectNode(arr[1], connSchema(), Parent{
		Node:         arr,
		Key:          1,
		Container:    device,
		ContainerKey: "dicomNetworkConnection",
	}, nil)
	if err != nil {
		t.Fatalf("SelectNode: %v", err)
	}

	deleted, err := sel.Delete(&recordingConfirmer{answer: true}, nil)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("Delete reported false")
	}

	spliced := device["dicomNetworkConnection"].([]any)
	if len(spliced) != 2 {
		t.Fatalf("array length = %d after splice, want 2", len(spliced))
	}
	if spliced[0].(map[string]any)["cn"] != "a" || spliced[1].(map[string]any)["cn"] != "c" {
		t.Errorf("unexpected survivors: %v", spliced)
	}
}

func TestDeleteDeclined(t *testing.T) {
	parent := map[string]any{"main": map[string]any{"cn": "main"}}
	sel, err := SelectNode(parent["main"], connSchema(), Parent{Node: parent, Key: "main"}, nil)
	if err != nil {
		t.Fatalf("SelectNode: %v", err)
	}

	deleted, err := sel.Delete(&recordingConfirmer{answer: false}, nil)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted {
		t.Error("Delete proceeded despite declined confirmation")
	}
	if _, ok := parent["main"]; !ok {
		t.Error("entry removed despite declined confirmation")
	}
	if sel.Node == nil {
		t.Error("selection cleared despite declined confirmation")
	}
}

func TestDeleteArrayWithoutContainerFails(t *testing.T) {
	arr := []any{map[string]any{"cn": "a"}}
	sel, err := SelectNode(arr[0], connSchema(), Parent{Node: arr, Key: 0}, nil)
	if err != nil {
		t.Fatalf("SelectNode: %v", err)
	}

	if _, err := sel.Delete(&recordingConfirmer{answer: true}, nil); err == nil {
		t.Error("array splice with no write-back container should fail")
	}
}

func TestDeleteNotifiesMonitor(t *testing.T) {
	parent := map[string]any{"main": map[string]any{"cn": "main"}}
	sel, err := SelectNode(parent["main"], connSchema(), Parent{Node: parent, Key: "main"}, nil)
	if err != nil {
		t.Fatalf("SelectNode: %v", err)
	}

	m := NewMonitor(DefaultDebounce)
	if _, err := sel.Delete(&recordingConfirmer{answer: true}, m); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if m.Pending() != 1 {
		t.Errorf("monitor pending = %d, want 1", m.Pending())
	}
}
