package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/crackify-ai/crackify-client/internal/api"
	"github.com/crackify-ai/crackify-client/internal/audio"
	"github.com/crackify-ai/crackify-client/internal/capture"
	"github.com/crackify-ai/crackify-client/internal/config"
	"github.com/crackify-ai/crackify-client/internal/session"
	"github.com/crackify-ai/crackify-client/internal/store"
	"github.com/crackify-ai/crackify-client/internal/transport"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logging
	setupLogging(cfg.LogLevel)

	log.Info().Msg("Starting Crackify interview client")

	apiClient := api.NewClient(cfg.APIBaseURL, cfg.AuthToken)

	archive, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create local archive")
	}

	setup := api.SetupData{
		SessionID:  cfg.SessionID,
		Role:       cfg.Role,
		Company:    cfg.Company,
		Language:   cfg.Language,
		ResumeText: readOptionalFile(cfg.ResumePath),
		JDText:     readOptionalFile(cfg.JDPath),
	}

	var vad audio.VAD
	if cfg.VADEnabled {
		v, err := audio.NewWebRTCVAD(cfg.VADMode)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create voice activity detector")
		}
		defer v.Close()
		vad = v
	}

	newSource := func() capture.Source {
		return capture.NewPortAudioSource(cfg.CaptureRate, cfg.FramesPerBuffer)
	}

	sess := session.NewInterviewSession(
		setup,
		apiClient,
		archive,
		newSource,
		transport.DefaultDialer(),
		cfg.WSBaseURL,
		cfg.AuthToken,
		cfg.CaptureRate,
		vad,
	)
	sess.SetReconnectPolicy(cfg.ReconnectAttempts, cfg.ReconnectWait)

	sess.OnPartial = func(text string) {
		fmt.Printf("\r  … %s", text)
	}
	sess.OnFinal = func(text string) {
		fmt.Printf("\rQ: %s\n", text)
	}
	sess.OnAnswerChunk = func(chunk string) {
		fmt.Print(chunk)
	}

	if err := sess.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start interview session")
	}

	fmt.Println("Interview session running. Commands: answer, cancel, clear, exit")

	quit := make(chan struct{})
	go commandLoop(sess, quit)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	select {
	case <-c:
		log.Info().Msg("Received shutdown signal")
	case <-quit:
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- sess.Stop()
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Error().Err(err).Msg("Error during shutdown")
		} else {
			log.Info().Msg("Session stopped gracefully")
		}
	case <-ctx.Done():
		log.Warn().Msg("Shutdown timeout exceeded, forcing exit")
	}
}

func commandLoop(sess *session.InterviewSession, quit chan struct{}) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
		case "answer", "a":
			go func() {
				if _, err := sess.GenerateAnswer(context.Background()); err != nil {
					fmt.Printf("\nanswer failed: %v\n", err)
					return
				}
				fmt.Println()
			}()
		case "cancel":
			sess.CancelAnswer()
		case "clear", "c":
			sess.ClearTranscript()
			fmt.Println("transcript cleared")
		case "exit", "quit", "q":
			close(quit)
			return
		case "":
		default:
			fmt.Println("commands: answer, cancel, clear, exit")
		}
	}
}

func readOptionalFile(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to read setup file")
		return ""
	}
	return string(data)
}

func setupLogging(level string) {
	// Setup zerolog
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	// Set log level
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Info().Str("level", level).Msg("Logging configured")
}
