package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/afoley587/coding-challenges-2025/user-records/internal/client"
)

var (
	// server address
	clientServerAddr string
	clientTimeout    time.Duration

	// create/get/update/delete fields
	newName  string
	newEmail string
	userID   int64

	// TLS flags
	insecure      bool
	tlsCA         string
	tlsClientCert string
	tlsClientKey  string
)

// Build DialConfig from CLI flags
func getDialConfig() client.DialConfig {
	return client.DialConfig{
		Address:    clientServerAddr,
		Insecure:   insecure,
		RootCA:     tlsCA,
		ClientCert: tlsClientCert,
		ClientKey:  tlsClientKey,
	}
}

// withClient dials the server, runs fn with a deadline and closes the
// connection afterwards.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *client.GRPCClient) error) error {
	c, err := client.NewClient(getDialConfig())
	if err != nil {
		return err
	}
	defer c.Close()
	ctx, cancel := context.WithTimeout(cmd.Context(), clientTimeout)
	defer cancel()
	return fn(ctx, c)
}

func requireID(cmd *cobra.Command) error {
	if !cmd.Flags().Changed("id") {
		return errors.New("--id must be specified")
	}
	return nil
}

func requireNameEmail() error {
	if newName == "" || newEmail == "" {
		return errors.New("both --name and --email must be specified")
	}
	return nil
}

// Root client command
var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Interact with the gRPC server",
	Long:  "Commands for listing, creating, retrieving, updating and deleting users via the gRPC client.",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client.GRPCClient) error {
			users, err := c.ListUsers(ctx)
			if err != nil {
				return err
			}
			for _, u := range users {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", u.GetId(), u.GetName(), u.GetEmail())
			}
			return nil
		})
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireNameEmail(); err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *client.GRPCClient) error {
			u, err := c.CreateUser(ctx, newName, newEmail)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user: %d\t%s\t%s\n", u.GetId(), u.GetName(), u.GetEmail())
			return nil
		})
	},
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a user by ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireID(cmd); err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *client.GRPCClient) error {
			u, err := c.GetUser(ctx, userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", u.GetId(), u.GetName(), u.GetEmail())
			return nil
		})
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Replace the name and email of a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireID(cmd); err != nil {
			return err
		}
		if err := requireNameEmail(); err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *client.GRPCClient) error {
			u, err := c.UpdateUser(ctx, userID, newName, newEmail)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated user: %d\t%s\t%s\n", u.GetId(), u.GetName(), u.GetEmail())
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a user by ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireID(cmd); err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *client.GRPCClient) error {
			if err := c.DeleteUser(ctx, userID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %d\n", userID)
			return nil
		})
	},
}

func init() {

	clientCmd.PersistentFlags().StringVarP(&clientServerAddr,
		"addr", "a", "127.0.0.1:9090", "Server address")

	clientCmd.PersistentFlags().DurationVar(&clientTimeout,
		"timeout", 10*time.Second, "Per-command deadline")

	clientCmd.PersistentFlags().BoolVar(
		&insecure, "insecure", false, "Use insecure gRPC (no TLS)")

	clientCmd.PersistentFlags().StringVar(
		&tlsCA, "tls-ca", "", "Path to root CA certificate")

	clientCmd.PersistentFlags().StringVar(
		&tlsClientCert, "tls-cert", "", "Path to client certificate for mTLS")

	clientCmd.PersistentFlags().StringVar(
		&tlsClientKey, "tls-key", "", "Path to client private key for mTLS")

	for _, c := range []*cobra.Command{createCmd, updateCmd} {
		c.Flags().StringVarP(&newName, "name", "n", "", "Name of the user")
		c.Flags().StringVarP(&newEmail, "email", "e", "", "Email of the user")
	}

	for _, c := range []*cobra.Command{getCmd, updateCmd, deleteCmd} {
		c.Flags().Int64VarP(&userID, "id", "i", 0, "ID of the user")
	}

	clientCmd.AddCommand(listCmd, createCmd, getCmd, updateCmd, deleteCmd)
	rootCmd.AddCommand(clientCmd)
}
