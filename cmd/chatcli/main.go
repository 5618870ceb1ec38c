// Package main provides a terminal client for joining a lecture chat session.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/xiaot623/gogo/lecturechat/internal/adapter/sessionclient"
	"github.com/xiaot623/gogo/lecturechat/internal/domain"
	"github.com/xiaot623/gogo/lecturechat/internal/joinlink"
	"github.com/xiaot623/gogo/lecturechat/internal/logger"
	"github.com/xiaot623/gogo/lecturechat/internal/service"
	"github.com/xiaot623/gogo/lecturechat/internal/syncclient"
)

const instructorName = "강사"

func main() {
	server := flag.String("server", envOr("LECTURECHAT_SERVER", "http://localhost:8080"), "session API base URL")
	sessionID := flag.String("session", "", "session id to join")
	link := flag.String("join-link", "", "join link shared by the instructor")
	name := flag.String("name", "", "display name (anonymous nickname when empty)")
	roleFlag := flag.String("role", string(domain.RoleStudent), "instructor or student")
	interval := flag.Duration("interval", envDuration("POLL_INTERVAL", 0), "refresh interval (server-advertised when 0)")
	flag.Parse()

	role := domain.Role(*roleFlag)
	if !role.Valid() {
		logger.Fatal("invalid role", "role", *roleFlag)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := sessionclient.NewClient(*server)
	if err := client.Ping(ctx); err != nil {
		logger.FatalErr(err, "session server is not reachable", "server", *server)
	}

	refresh := *interval
	if refresh <= 0 {
		refresh = serverInterval(ctx, client)
	}

	id := strings.TrimSpace(*sessionID)
	if id == "" && *link != "" {
		id, _ = joinlink.SessionID(*link)
	}
	if id == "" {
		if role != domain.RoleInstructor {
			logger.Fatal("a student needs -session or -join-link")
		}
		created, err := client.CreateSession(ctx)
		if err != nil {
			logger.FatalErr(err, "failed to create session")
		}
		id = created
	}

	username := strings.TrimSpace(*name)
	if username == "" {
		username = service.RandomNickname()
		if role == domain.RoleInstructor {
			username = instructorName
		}
	}

	p := syncclient.NewParticipant(client, id, username, role)
	if role == domain.RoleStudent {
		if err := p.Join(ctx); err != nil {
			logger.FatalErr(err, "failed to join session", "session_id", id)
		}
	}

	fmt.Printf("Session: %s\n", id)
	if role == domain.RoleInstructor {
		if url, err := client.JoinLink(ctx, id); err == nil {
			fmt.Printf("Join link: %s\n", url)
		}
	}
	fmt.Printf("Joined as %s. Type a message and press Enter to send.\n", username)
	fmt.Println("Commands: /leave to exit")
	fmt.Println()

	v := newView(os.Stdout, p)
	watchErr := make(chan error, 1)
	go func() {
		watchErr <- p.Watch(ctx, refresh, v.render, syncclient.WithErrorHandler(func(err error) {
			logger.Warn("refresh failed", "session_id", id, "error", err)
		}))
	}()

	lines := make(chan string)
	go readLines(os.Stdin, lines)

	for {
		select {
		case <-ctx.Done():
			leave(p)
			return
		case err := <-watchErr:
			if errors.Is(err, syncclient.ErrSessionEnded) {
				fmt.Println("Session has ended.")
				return
			}
			if err != nil {
				logger.ErrorErr(err, "refresh stopped", "session_id", id)
			}
			return
		case input, ok := <-lines:
			if !ok || input == "/leave" || input == "/quit" {
				leave(p)
				return
			}
			if strings.TrimSpace(input) == "" {
				continue
			}
			if _, err := p.Send(ctx, input); err != nil {
				fmt.Printf("Send failed: %v\n", err)
			}
		}
	}
}

func leave(p *syncclient.Participant) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := p.Leave(ctx); err != nil {
		logger.Warn("failed to leave session", "session_id", p.SessionID, "error", err)
		return
	}
	fmt.Println("Bye!")
}

func readLines(r io.Reader, out chan<- string) {
	defer close(out)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		out <- scanner.Text()
	}
}

// serverInterval falls back to the default when the server advertises none.
func serverInterval(ctx context.Context, client *sessionclient.Client) time.Duration {
	d, err := client.PollInterval(ctx)
	if err != nil {
		logger.Warn("could not read server poll interval", "error", err)
	}
	if d <= 0 {
		return syncclient.DefaultInterval
	}
	return d
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warn("ignoring invalid duration", "key", key, "value", v)
		return fallback
	}
	return d
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
