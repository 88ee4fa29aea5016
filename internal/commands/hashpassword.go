package commands

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/yu-ki/portfolio/internal/auth"
)

// HashPassword handles the hash-password subcommand
func HashPassword(args []string) {
	fs := flag.NewFlagSet("hash-password", flag.ExitOnError)
	overwrite := fs.Bool("overwrite", false, "Overwrite existing auth file without asking")
	file := fs.String("file", envOr("AUTH_FILE", auth.DefaultAuthFile), "Path to auth file")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: portfolio hash-password [OPTIONS]\n\n")
		fmt.Fprintf(os.Stderr, "Creates the admin auth file with a hashed password (Argon2id).\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	fmt.Print("Enter username: ")
	var username string
	if _, err := fmt.Scanln(&username); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading username: %v\n", err)
		os.Exit(1)
	}
	if username == "" || strings.Contains(username, ":") {
		fmt.Fprintf(os.Stderr, "Username must be non-empty and must not contain ':'\n")
		os.Exit(1)
	}

	password := readPasswordWithMask("Enter password:   ")
	passwordConfirm := readPasswordWithMask("Confirm password: ")

	if password == "" {
		fmt.Fprintf(os.Stderr, "Password cannot be empty\n")
		os.Exit(1)
	}
	if password != passwordConfirm {
		fmt.Fprintf(os.Stderr, "Passwords do not match\n")
		os.Exit(1)
	}

	err := auth.WriteFile(*file, username, password, *overwrite)
	if errors.Is(err, auth.ErrFileExists) && confirm(fmt.Sprintf("Auth file already exists: %s\nOverwrite? (y/N): ", *file)) {
		err = auth.WriteFile(*file, username, password, true)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Auth file created: %s (mode: 0400 read-only)\n", *file)
	fmt.Printf("   Username: %s\n", username)
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// readPasswordWithMask reads password input and echoes asterisks
func readPasswordWithMask(prompt string) string {
	fmt.Print(prompt)

	oldState, err := term.GetState(int(syscall.Stdin))
	if err != nil {
		password, _ := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		return string(password)
	}
	defer term.Restore(int(syscall.Stdin), oldState)

	if _, err := term.MakeRaw(int(syscall.Stdin)); err != nil {
		password, _ := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		return string(password)
	}

	var password []rune
	reader := bufio.NewReader(os.Stdin)

	for {
		char, _, err := reader.ReadRune()
		if err != nil {
			break
		}

		switch char {
		case '\n', '\r':
			fmt.Print("\r\n")
			return string(password)
		case 127, 8: // Backspace or Delete
			if len(password) > 0 {
				password = password[:len(password)-1]
				fmt.Print("\b \b")
			}
		case 3: // Ctrl+C
			term.Restore(int(syscall.Stdin), oldState)
			fmt.Println()
			os.Exit(1)
		default:
			if char >= 32 {
				password = append(password, char)
				fmt.Print("*")
			}
		}
	}

	fmt.Print("\r\n")
	return string(password)
}
