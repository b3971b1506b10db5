package physio

import (
	"encoding/json"
	"testing"
)

func TestValueUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Value
		wantErr bool
	}{
		{
			name:  "number",
			input: `5.2`,
			want:  NumberValue(5.2),
		},
		{
			name:  "string",
			input: `"dry"`,
			want:  StringValue("dry"),
		},
		{
			name:  "list of strings",
			input: `["linalool","citral"]`,
			want:  ListValue("linalool", "citral"),
		},
		{
			name:  "null",
			input: `null`,
			want:  Value{Kind: ValueNull},
		},
		{
			name:    "list with non-string element",
			input:   `["linalool", 3]`,
			wantErr: true,
		},
		{
			name:    "object is unsupported",
			input:   `{"min": 1}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Value
			err := json.Unmarshal([]byte(tt.input), &got)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if got.Kind != tt.want.Kind || got.Num != tt.want.Num || got.Str != tt.want.Str {
				t.Errorf("Unmarshal = %+v, want %+v", got, tt.want)
			}
			if len(got.List) != len(tt.want.List) {
				t.Fatalf("Unmarshal list = %v, want %v", got.List, tt.want.List)
			}
			for i := range got.List {
				if got.List[i] != tt.want.List[i] {
					t.Errorf("Unmarshal list[%d] = %q, want %q", i, got.List[i], tt.want.List[i])
				}
			}
		})
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"integer-valued number drops the fraction", NumberValue(37), "37"},
		{"fractional number", NumberValue(5.2), "5.2"},
		{"string", StringValue("oily"), "oily"},
		{"list joins with comma", ListValue("a", "b"), "a, b"},
		{"null", Value{}, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
