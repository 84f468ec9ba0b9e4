package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/dialogue"
	"github.com/spigell/talentscout/internal/i18n"
	"github.com/spigell/talentscout/internal/logger"
)

const (
	PromptRestart = "Restart interview"
	PromptExit    = "Exit"
)

var errExit = errors.New("exit requested")

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run an interview in the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		chat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().BoolP("yes", "y", false, "consent to storing the interview without asking")
	chatCmd.Flags().StringP("language", "l", "", "answer the language question up front: English, Spanish, French or Hindi")
}

func parseLanguageFlag(value string) (i18n.Language, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	lang, ok := i18n.ParseLanguage(value)
	if !ok {
		return "", fmt.Errorf("unsupported language %q", value)
	}
	return lang, nil
}

// opening starts the interview and, with a preset language, answers the
// language question on the candidate's behalf.
func opening(ctx context.Context, ctrl *dialogue.Controller, preset i18n.Language) dialogue.Reply {
	reply := ctrl.Start()
	if preset == "" {
		return reply
	}
	return ctrl.Handle(ctx, string(preset))
}

func chat(cmd *cobra.Command) {
	ctx := context.Background()

	// The conversation owns stdout.
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), "stderr")
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the talentscout chat", zap.String("version", version))

	flagLanguage, _ := cmd.Flags().GetString("language")
	preset, err := parseLanguageFlag(flagLanguage)
	if err != nil {
		logger.Fatal("reading the language flag", zap.Error(err))
	}

	consent := config.Consent
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		consent = true
	}
	if !consent {
		consent = askConsent()
	}

	store, err := newBackend(ctx, config.Storage, logger)
	if err != nil {
		logger.Fatal("creating the storage backend", zap.Error(err))
	}
	defer store.Close()

	ctrl := dialogue.New(dialogue.Deps{
		Generator: newGenerator(ctx, config.LLM, logger),
		Store:     store.Store,
		Logger:    logger,
		Consent:   consent,
	})
	defer ctrl.Close()

	say(opening(ctx, ctrl, preset))

	for {
		text, err := (&promptui.Prompt{Label: inputLabel(ctrl)}).Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			logger.Info("exiting", zap.String("reason", "input closed"))
			return
		}
		if err != nil {
			logger.Fatal("reading input", zap.Error(err))
		}

		reply := ctrl.Handle(ctx, text)
		say(reply)

		if !reply.Ended {
			continue
		}

		if err := afterInterview(ctx, ctrl, preset, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func askConsent() bool {
	prompt := promptui.Prompt{
		Label:     "May we store your answers so a recruiter can review them",
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err == nil
}

func inputLabel(ctrl *dialogue.Controller) string {
	if ctrl.Phase() != dialogue.PhasePersonal {
		return "You"
	}
	return fmt.Sprintf("You (%d%% profile)", int(ctrl.Progress()*100))
}

func say(reply dialogue.Reply) {
	fmt.Printf("\nTalentScout: %s\n\n", strings.ReplaceAll(reply.Text, "**", ""))
}

// afterInterview shows the end menu until the candidate restarts or exits.
func afterInterview(ctx context.Context, ctrl *dialogue.Controller, preset i18n.Language, logger *zap.Logger) error {
	download := i18n.Text(ctrl.Snapshot().Language, i18n.KeyDownload)

	for {
		menu := promptui.Select{
			Label: "Interview complete",
			Items: []string{download, PromptRestart, PromptExit},
		}

		_, action, err := menu.Run()
		if err != nil {
			return errExit
		}

		switch action {
		case download:
			filename, err := saveTranscript(ctrl)
			if err != nil {
				return err
			}
			logger.Info("transcript saved", zap.String("filename", filename))
		case PromptRestart:
			ctrl.Restart()
			say(opening(ctx, ctrl, preset))
			return nil
		case PromptExit:
			logger.Info("exiting", zap.String("reason", "got exit from menu"))
			return errExit
		default:
			return fmt.Errorf("invalid action: %s", action)
		}
	}
}

func saveTranscript(ctrl *dialogue.Controller) (string, error) {
	data, err := ctrl.Export()
	if err != nil {
		return "", fmt.Errorf("export transcript: %w", err)
	}

	filename := ctrl.ExportFilename()
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return filename, nil
}
