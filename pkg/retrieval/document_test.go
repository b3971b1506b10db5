package retrieval

import (
	"testing"

	"aromatiq-hq/neroli/pkg/physio"
)

func floatPtr(f float64) *float64 { return &f }

func TestBuildDocument(t *testing.T) {
	tests := []struct {
		name string
		rule physio.Rule
		want string
	}{
		{
			name: "acidic ph rule with factor and reasoning",
			rule: physio.Rule{
				ID: "r1",
				Condition: physio.Condition{
					Parameter: "ph",
					Operator:  physio.OperatorLess,
					Value:     physio.NumberValue(5.2),
				},
				Target:    "top_notes",
				Action:    "increase_concentration",
				Factor:    floatPtr(1.2),
				Reasoning: "Acidic skin evaporates fragrance faster",
			},
			want: "Condition: ph < 5.2 | Affects: top_notes | Action: increase_concentration | " +
				"Adjustment factor: 1.2 | Reasoning: Acidic skin evaporates fragrance faster | " +
				"Related concepts: acidic skin, dry skin chemistry, faster evaporation",
		},
		{
			name: "alkaline ph rule",
			rule: physio.Rule{
				Condition: physio.Condition{
					Parameter: "ph",
					Operator:  physio.OperatorGreater,
					Value:     physio.NumberValue(5.8),
				},
				Target: "base_notes",
				Action: "reduce",
			},
			want: "Condition: ph > 5.8 | Affects: base_notes | Action: reduce | " +
				"Related concepts: alkaline skin, oily skin chemistry, slower breakdown",
		},
		{
			name: "ph threshold outside hint range",
			rule: physio.Rule{
				Condition: physio.Condition{
					Parameter: "ph",
					Operator:  physio.OperatorLess,
					Value:     physio.NumberValue(7),
				},
				Target: "top_notes",
				Action: "reduce",
			},
			want: "Condition: ph < 7 | Affects: top_notes | Action: reduce",
		},
		{
			name: "zero factor is omitted",
			rule: physio.Rule{
				Condition: physio.Condition{
					Parameter: "humidity",
					Operator:  physio.OperatorGreater,
					Value:     physio.NumberValue(80),
				},
				Target: "fixatives",
				Action: "increase",
				Factor: floatPtr(0),
			},
			want: "Condition: humidity > 80 | Affects: fixatives | Action: increase",
		},
		{
			name: "dry skin equality rule",
			rule: physio.Rule{
				Condition: physio.Condition{
					Parameter: "skin_type",
					Operator:  physio.OperatorEqual,
					Value:     physio.StringValue("dry"),
				},
				Target: "fixatives",
				Action: "add_fixatives",
			},
			want: "Condition: skin_type == dry | Affects: fixatives | Action: add_fixatives | " +
				"Related concepts: low sebum, faster absorption, needs moisturizing bases",
		},
		{
			name: "oily skin in a list value",
			rule: physio.Rule{
				Condition: physio.Condition{
					Parameter: "skin_type",
					Operator:  physio.OperatorContains,
					Value:     physio.ListValue("Oily", "combination"),
				},
				Target: "heart_notes",
				Action: "lighten",
			},
			want: "Condition: skin_type contains Oily, combination | Affects: heart_notes | Action: lighten | " +
				"Related concepts: high sebum, better projection, avoid heavy oils",
		},
		{
			name: "warm temperature rule",
			rule: physio.Rule{
				Condition: physio.Condition{
					Parameter: "temperature",
					Operator:  physio.OperatorGreater,
					Value:     physio.NumberValue(37.2),
				},
				Target: "projection",
				Action: "expect_enhanced",
			},
			want: "Condition: temperature > 37.2 | Affects: projection | Action: expect_enhanced | " +
				"Related concepts: warm skin, faster diffusion, enhanced projection",
		},
		{
			name: "cool temperature rule",
			rule: physio.Rule{
				Condition: physio.Condition{
					Parameter: "temperature",
					Operator:  physio.OperatorLess,
					Value:     physio.NumberValue(36),
				},
				Target: "sillage",
				Action: "expect_subtle",
			},
			want: "Condition: temperature < 36 | Affects: sillage | Action: expect_subtle | " +
				"Related concepts: cool skin, slower evaporation, subtle sillage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildDocument(tt.rule); got != tt.want {
				t.Errorf("BuildDocument() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name    string
		profile physio.Profile
		want    string
	}{
		{
			name: "full profile",
			profile: physio.Profile{
				physio.ParamPH:          4.8,
				physio.ParamSkinType:    "dry",
				physio.ParamTemperature: 37.5,
				physio.ParamAllergies:   []string{"linalool", "limonene"},
			},
			want: "pH level 4.8 acidic skin chemistry faster evaporation " +
				"skin type dry low sebum fast absorption " +
				"body temperature 37.5 warm skin fast diffusion " +
				"allergen sensitivity linalool allergen sensitivity limonene",
		},
		{
			name:    "neutral ph gains no expansion",
			profile: physio.Profile{physio.ParamPH: 5.5},
			want:    "pH level 5.5",
		},
		{
			name:    "alkaline ph",
			profile: physio.Profile{physio.ParamPH: 6.1},
			want:    "pH level 6.1 alkaline skin chemistry slower breakdown",
		},
		{
			name:    "skin type is lowercased",
			profile: physio.Profile{physio.ParamSkinType: "OILY"},
			want:    "skin type oily high sebum enhanced projection",
		},
		{
			name:    "cool temperature",
			profile: physio.Profile{physio.ParamTemperature: 35.0},
			want:    "body temperature 35 cool skin slow evaporation",
		},
		{
			name: "decoded JSON list shape",
			profile: physio.Profile{
				physio.ParamAllergies: []interface{}{"citral"},
			},
			want: "allergen sensitivity citral",
		},
		{
			name:    "empty profile",
			profile: physio.Profile{},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildQuery(tt.profile); got != tt.want {
				t.Errorf("BuildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}
