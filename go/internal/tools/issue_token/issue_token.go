package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/config"
	"github.com/mcdev12/draftroom/go/internal/draft/gateway"
)

// Prints a signed seat token.
//
//	issue_token <draft-id> <seat>       player token for one seat
//	issue_token commissioner [draft-id] commissioner token, all drafts without an id
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	auth, err := gateway.NewAuthenticator(cfg.Auth.Secret, cfg.Auth.Issuer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "JWT_SECRET: %v\n", err)
		os.Exit(1)
	}

	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: issue_token <draft-id> <seat> | commissioner [draft-id]")
		os.Exit(2)
	}

	var (
		draftID = uuid.Nil
		seat    int
		role    = gateway.RolePlayer
	)
	if args[0] == gateway.RoleCommissioner {
		role = gateway.RoleCommissioner
		args = args[1:]
	}
	if len(args) > 0 {
		if draftID, err = uuid.Parse(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "invalid draft id: %v\n", err)
			os.Exit(2)
		}
	}
	if role == gateway.RolePlayer {
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "a player token needs a draft id and a seat")
			os.Exit(2)
		}
		if seat, err = strconv.Atoi(args[1]); err != nil || seat < 1 {
			fmt.Fprintln(os.Stderr, "seat must be a positive number")
			os.Exit(2)
		}
	}

	token, err := auth.Issue(draftID, seat, role, cfg.Auth.TokenTTL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
