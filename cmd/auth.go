// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"martedit/cli/internal/keychain"
	"martedit/cli/internal/logging"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// authCmd groups API key management. The key is stored in the OS keychain
// and read back by the editor when no environment variable overrides it.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the model API key",
	Long: `The auth command stores, shows, and removes the model API key in the OS
keychain. The editor resolves the key from GEMINI_API_KEY or GOOGLE_API_KEY
first and falls back to the keychain, so a stored key makes those variables
unnecessary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the model API key in the OS keychain",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := readSecret("Enter API key: ")
		if err != nil {
			return err
		}
		if key == "" {
			return errors.New("empty API key")
		}

		km, err := keychain.GetManager()
		if err != nil {
			return err
		}
		if err := km.SaveAPIKey(key); err != nil {
			return err
		}
		fmt.Println("✅ API key saved to the OS keychain")
		return nil
	},
}

var authShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored API key, masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychain.GetManager()
		if err != nil {
			return err
		}
		key, err := km.LoadAPIKey()
		if err != nil || strings.TrimSpace(key) == "" {
			fmt.Println("No API key stored. Run: martedit auth set")
			return nil
		}
		fmt.Println(logging.MaskKey(key))
		return nil
	},
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychain.GetManager()
		if err != nil {
			return err
		}
		if err := km.ClearAPIKey(); err != nil {
			return err
		}
		fmt.Println("✅ API key removed")
		return nil
	},
}

// readSecret reads a line without echoing it when stdin is a terminal.
// Piped input falls back to a plain buffered read.
func readSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd, authShowCmd, authClearCmd)
}
