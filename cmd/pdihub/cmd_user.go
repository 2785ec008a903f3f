package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdihub/pdihub/client"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users (admin only)",
	}
	cmd.AddCommand(userListCmd())
	cmd.AddCommand(userGetCmd())
	cmd.AddCommand(userCreateCmd())
	cmd.AddCommand(userUpdateCmd())
	cmd.AddCommand(userDeactivateCmd())
	return cmd
}

func userListCmd() *cobra.Command {
	var includeInactive bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Run: func(cmd *cobra.Command, args []string) {
			users, err := apiClient.Users.List(context.Background(), includeInactive)
			if err != nil {
				fatal("list users", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "NAME", "EMAIL", "ROLE", "ACTIVE"}
				var rows [][]string
				for _, u := range users {
					rows = append(rows, []string{u.ID, u.Name, u.Email, u.Role, fmt.Sprintf("%t", u.IsActive)})
				}
				formatTable(headers, rows)
				return
			}
			output(map[string]any{"users": users}, "")
		},
	}
	cmd.Flags().BoolVar(&includeInactive, "include-inactive", false, "Include deactivated accounts")
	return cmd
}

func userGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single user",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			u, err := apiClient.Users.Get(context.Background(), args[0])
			if err != nil {
				fatal("get user", err)
			}
			output(u, u.ID)
		},
	}
}

func userCreateCmd() *cobra.Command {
	var name, email, phone, role string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Run: func(cmd *cobra.Command, args []string) {
			u, err := apiClient.Users.Create(context.Background(), &client.CreateUserRequest{
				Name: name, Email: email, Phone: phone, Role: role,
			})
			if err != nil {
				fatal("create user", err)
			}
			output(u, u.ID)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&role, "role", "technician", "Role: technician|manager|admin")
	cmd.MarkFlagRequired("name")  //nolint:errcheck
	cmd.MarkFlagRequired("email") //nolint:errcheck
	cmd.MarkFlagRequired("phone") //nolint:errcheck
	return cmd
}

func userUpdateCmd() *cobra.Command {
	var name, phone, role string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user (email is immutable)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateUserRequest{}
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("phone") {
				req.Phone = &phone
			}
			if cmd.Flags().Changed("role") {
				req.Role = &role
			}
			u, err := apiClient.Users.Update(context.Background(), args[0], req)
			if err != nil {
				fatal("update user", err)
			}
			output(u, u.ID)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&role, "role", "", "Role: technician|manager|admin")
	return cmd
}

func userDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Deactivate a user account (soft delete)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Users.Deactivate(context.Background(), args[0]); err != nil {
				fatal("deactivate user", err)
			}
			output(map[string]bool{"deactivated": true}, args[0])
		},
	}
}
