package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Polymarket/polymarket-cli/internal/auth"
	"github.com/Polymarket/polymarket-cli/pkg/config"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage the signing key and wallet addresses",
}

var walletCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a new signing key and store it in the config file",
	RunE:  runWalletCreate,
}

var walletImportCmd = &cobra.Command{
	Use:   "import <private-key>",
	Short: "Import an existing signing key into the config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runWalletImport,
}

var walletShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved identity: addresses, signature type and sources",
	RunE:  runWalletShow,
}

var walletExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the stored private key (requires --reveal)",
	RunE:  runWalletExport,
}

var walletReveal bool

func init() {
	rootCmd.AddCommand(walletCmd)
	walletCmd.AddCommand(walletCreateCmd)
	walletCmd.AddCommand(walletImportCmd)
	walletCmd.AddCommand(walletShowCmd)
	walletCmd.AddCommand(walletExportCmd)

	walletExportCmd.Flags().BoolVar(&walletReveal, "reveal", false, "Confirm printing the private key to stdout")
}

func runWalletCreate(cmd *cobra.Command, args []string) error {
	file, err := config.LoadFile()
	if err != nil {
		return err
	}
	if file.PrivateKey != "" {
		return fmt.Errorf("config file already holds a key for this profile; use 'wallet import' to replace it explicitly")
	}

	key, err := auth.GenerateKey()
	if err != nil {
		return err
	}
	defer key.Zero()

	file.PrivateKey = key.Hex()
	path, err := config.SaveFile(file)
	if err != nil {
		return err
	}

	fmt.Printf("Address: %s\n", key.Address().Hex())
	fmt.Printf("Proxy wallet: %s\n", auth.DeriveProxyWallet(key.Address()).Hex())
	fmt.Printf("Key stored in %s\n", path)
	return nil
}

func runWalletImport(cmd *cobra.Command, args []string) error {
	key, err := auth.ParseKey(args[0])
	if err != nil {
		return err
	}
	defer key.Zero()

	file, err := config.LoadFile()
	if err != nil {
		return err
	}

	file.PrivateKey = key.Hex()
	path, err := config.SaveFile(file)
	if err != nil {
		return err
	}

	fmt.Printf("Address: %s\n", key.Address().Hex())
	fmt.Printf("Proxy wallet: %s\n", auth.DeriveProxyWallet(key.Address()).Hex())
	fmt.Printf("Key stored in %s\n", path)
	return nil
}

func runWalletShow(cmd *cobra.Command, args []string) error {
	identity, err := resolveIdentity()
	if err != nil {
		return err
	}
	defer identity.Zero()

	fmt.Printf("Address:        %s (key from %s)\n", identity.Key.Address().Hex(), identity.KeySource)
	fmt.Printf("Signature type: %s (from %s)\n", identity.SignatureType, identity.TypeSource)
	fmt.Printf("Maker:          %s\n", identity.Maker.Hex())
	fmt.Printf("Proxy wallet:   %s\n", auth.DeriveProxyWallet(identity.Key.Address()).Hex())
	fmt.Printf("Chain id:       %d\n", identity.ChainID)
	return nil
}

func runWalletExport(cmd *cobra.Command, args []string) error {
	if !walletReveal {
		return fmt.Errorf("refusing to print the private key without --reveal")
	}

	file, err := config.LoadFile()
	if err != nil {
		return err
	}
	if file.PrivateKey == "" {
		return fmt.Errorf("no key in the config file")
	}

	key, err := auth.ParseKey(file.PrivateKey)
	if err != nil {
		return err
	}
	defer key.Zero()

	fmt.Println(key.Hex())
	return nil
}
