package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/go-idp/keybridge/cmd/keybridged/config"
	"github.com/go-idp/keybridge/storage/model"
)

var rootCmd = &cobra.Command{
	Use:   "kbcli",
	Short: "kbcli can help you manage your KeyBridge",
	Long:  "kbcli can help you manage your KeyBridge",
}

var configFile string
var backends model.Backends

func loadConfig() error {
	config.Load(configFile)
	c := config.Get()

	var err error
	backends, err = config.LoadStorageBackends(c.Storage, c.API.Admin.Argon2idParams)
	if err != nil {
		log.Fatal(err)
	}
	return nil
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage signing keys",
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all signing keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		keys, err := backends.Keys.List()
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(keys, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var (
	keyAlgorithm string
	keyName      string
	keyIssuer    string
)

var keysGenerateCmd = &cobra.Command{
	Use:   "generate <id>",
	Short: "Generate a new signing key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		created, privJWK, err := backends.Keys.Generate(args[0], keyAlgorithm, keyName, keyIssuer)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(
			map[string]any{
				"key": created,
				"jwk": privJWK,
			}, "", "  ",
		)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var keysDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a signing key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		return backends.Keys.Delete(args[0])
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage admin users",
}

var userDisplayName string

var usersAddCmd = &cobra.Command{
	Use:   "add <username> <password>",
	Short: "Add an admin user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		u, err := backends.Users.Create(args[0], args[1], userDisplayName)
		if err != nil {
			return err
		}
		fmt.Printf("created user '%s'\n", u.Username)
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "the config file to use")
	keysGenerateCmd.Flags().StringVarP(&keyAlgorithm, "alg", "a", "RS256", "the signing algorithm (RS256, ES256, HS256)")
	keysGenerateCmd.Flags().StringVarP(&keyName, "name", "n", "", "a display name for the key")
	keysGenerateCmd.Flags().StringVarP(&keyIssuer, "issuer", "i", "", "the issuer the key belongs to")
	usersAddCmd.Flags().StringVarP(&userDisplayName, "display-name", "d", "", "a display name for the user")
	keysCmd.AddCommand(keysListCmd, keysGenerateCmd, keysDeleteCmd)
	usersCmd.AddCommand(usersAddCmd)
	rootCmd.AddCommand(keysCmd, usersCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
