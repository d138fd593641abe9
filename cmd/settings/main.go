package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/google/uuid"

	"github.com/commhub/community-settings/config"
	"github.com/commhub/community-settings/internal/logging"
	"github.com/commhub/community-settings/internal/settings/client"
	"github.com/commhub/community-settings/internal/settings/domain"
	"github.com/commhub/community-settings/internal/settings/script"
	"github.com/commhub/community-settings/internal/settings/service"
)

const usage = "usage: settings show <project-id> | plan <project-id> <edits.yaml> | apply <project-id> <edits.yaml>"

func main() {
	if len(os.Args) < 3 {
		log.Fatal(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logging.WithRequestID(ctx, "cli-"+uuid.NewString())

	cmd, projectID := os.Args[1], os.Args[2]
	switch cmd {
	case "show":
		err = runShow(ctx, cfg, projectID)
	case "plan", "apply":
		if len(os.Args) < 4 {
			log.Fatal(usage)
		}
		err = runScript(ctx, cfg, projectID, os.Args[3], cmd == "apply")
	default:
		log.Fatalf("unknown command: %s", cmd)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func openSession(ctx context.Context, cfg *config.Config, projectID string) (*service.Session, error) {
	s := service.NewSession(service.Options{
		Gateway:  client.New(cfg.Client.APIURL, cfg.Client.Timeout),
		Reporter: service.NewLogReporter(ctx),
	})
	if err := s.Load(ctx, projectID); err != nil {
		// Sections that failed to load are empty; editing them would wipe data.
		return nil, fmt.Errorf("load %s, sections %v unavailable: %w", projectID, s.Unloaded(), err)
	}
	return s, nil
}

func runShow(ctx context.Context, cfg *config.Config, projectID string) error {
	s, err := openSession(ctx, cfg, projectID)
	if err != nil {
		return err
	}
	printSession(os.Stdout, s)
	return nil
}

func runScript(ctx context.Context, cfg *config.Config, projectID, path string, submit bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open edit script: %w", err)
	}
	defer f.Close()

	sc, err := script.Parse(f)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, cfg, projectID)
	if err != nil {
		return err
	}
	if err := script.Apply(ctx, s, sc); err != nil {
		return fmt.Errorf("apply edit script: %w", err)
	}

	plan, err := s.Plan()
	if err != nil {
		return err
	}
	printPlan(os.Stdout, plan)

	if errs := s.ValidationErrors(); errs.Any() {
		printValidation(os.Stdout, s)
		return fmt.Errorf("%d global variables with duplicate names or keys: %w", len(errs), domain.ErrValidation)
	}

	if !submit {
		return nil
	}

	if err := s.Submit(ctx); err != nil {
		printFailures(os.Stderr, err)
		return errors.New("settings were not saved")
	}
	fmt.Println("saved")
	return nil
}
