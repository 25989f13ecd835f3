// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jsonx

import (
	"reflect"
	"testing"
)

// --- StripFences ---

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  \n```json\n[1, 2]\n```\n  ", "[1, 2]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.in); got != tt.want {
				t.Errorf("StripFences() = %q, want %q", got, tt.want)
			}
		})
	}
}

// --- Unmarshal ---

func TestUnmarshalCleanJSON(t *testing.T) {
	var v map[string]int
	if err := Unmarshal(`{"a": 1, "b": 2}`, &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v["a"] != 1 || v["b"] != 2 {
		t.Errorf("Unmarshal() = %v", v)
	}
}

func TestUnmarshalFencedArray(t *testing.T) {
	var v []string
	raw := "```json\n[\"one\", \"two\"]\n```"
	if err := Unmarshal(raw, &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(v, []string{"one", "two"}) {
		t.Errorf("Unmarshal() = %v", v)
	}
}

func TestUnmarshalProseAroundValue(t *testing.T) {
	var v []string
	raw := `Here are the queries you asked for: ["q1", "q2"] - hope that helps!`
	if err := Unmarshal(raw, &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(v, []string{"q1", "q2"}) {
		t.Errorf("Unmarshal() = %v", v)
	}
}

func TestUnmarshalTrailingComma(t *testing.T) {
	var v struct {
		Items []int `json:"items"`
	}
	raw := `Result: {"items": [1, 2, 3,],}`
	if err := Unmarshal(raw, &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(v.Items, []int{1, 2, 3}) {
		t.Errorf("Unmarshal() items = %v", v.Items)
	}
}

func TestUnmarshalTruncatedArray(t *testing.T) {
	var v struct {
		A []int `json:"a"`
	}
	if err := Unmarshal(`{"a": [1, 2, 3`, &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(v.A, []int{1, 2}) {
		t.Errorf("Unmarshal() a = %v, want [1 2]", v.A)
	}
}

func TestUnmarshalTruncatedMidString(t *testing.T) {
	var v struct {
		KeyFindings []string `json:"key_findings"`
	}
	raw := `{"key_findings": ["first finding", "second finding", "thi`
	if err := Unmarshal(raw, &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := []string{"first finding", "second finding"}
	if !reflect.DeepEqual(v.KeyFindings, want) {
		t.Errorf("Unmarshal() key_findings = %v, want %v", v.KeyFindings, want)
	}
}

func TestUnmarshalNestedObjectKeptWhole(t *testing.T) {
	var v struct {
		Outer struct {
			Inner []int `json:"inner"`
		} `json:"outer"`
	}
	raw := "Sure!\n```json\n{\"outer\": {\"inner\": [1, 2]}}\n```\nLet me know."
	if err := Unmarshal(raw, &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(v.Outer.Inner, []int{1, 2}) {
		t.Errorf("Unmarshal() inner = %v", v.Outer.Inner)
	}
}

func TestUnmarshalNoValue(t *testing.T) {
	var v map[string]any
	if err := Unmarshal("there is no structured data here", &v); err == nil {
		t.Fatal("Unmarshal: expected error for plain prose")
	}
}
