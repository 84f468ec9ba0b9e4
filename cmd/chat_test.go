package cmd

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/dialogue"
	"github.com/spigell/talentscout/internal/i18n"
)

func TestParseLanguageFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    i18n.Language
		wantErr bool
	}{
		{input: "", want: ""},
		{input: " hindi ", want: i18n.Hindi},
		{input: "SPANISH", want: i18n.Spanish},
		{input: "klingon", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := parseLanguageFlag(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLanguageFlag(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("parseLanguageFlag(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestOpeningWithPresetLanguage(t *testing.T) {
	gen := newGenerator(context.Background(), &LLMConfig{Provider: providerNone}, zap.NewNop())
	ctx := context.Background()

	ctrl := dialogue.New(dialogue.Deps{Generator: gen})
	reply := opening(ctx, ctrl, "")
	if reply.Phase != dialogue.PhaseLanguagePending {
		t.Fatalf("expected language question without preset, got %+v", reply)
	}

	ctrl = dialogue.New(dialogue.Deps{Generator: gen})
	reply = opening(ctx, ctrl, i18n.French)
	if reply.Phase != dialogue.PhaseIntroPending || reply.Text != i18n.Text(i18n.French, i18n.KeyGreeting) {
		t.Fatalf("expected french greeting, got %+v", reply)
	}

	ctrl.Restart()
	reply = opening(ctx, ctrl, i18n.French)
	if reply.Phase != dialogue.PhaseIntroPending || len(ctrl.Visible()) != 3 {
		t.Fatalf("expected preset to apply after restart, got %+v with %d turns", reply, len(ctrl.Visible()))
	}
}
