package cmd

import (
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/RoriQuery/internal/api"
	"github.com/Rorical/RoriQuery/internal/auth"
	"github.com/Rorical/RoriQuery/internal/config"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the active profile's backend",
	Run: func(cmd *cobra.Command, args []string) {
		deps := mustDeps()
		defer deps.Close()

		email := loginEmail
		if email == "" {
			prompt := promptui.Prompt{
				Label:   "Email",
				Default: deps.Config.Current().Email,
			}
			var err error
			if email, err = prompt.Run(); err != nil {
				log.Fatalf("Prompt failed: %v", err)
			}
		}

		passwordPrompt := promptui.Prompt{
			Label: "Password",
			Mask:  '*',
		}
		password, err := passwordPrompt.Run()
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}

		ctx, cancel := commandContext()
		defer cancel()
		resp, err := deps.Client.Login(ctx, email, password)
		if err != nil {
			log.Fatal(api.LoginErrorText(err))
		}
		if err := deps.Session.SignIn(resp.AccessToken, resp.RoleID); err != nil {
			log.Fatalf("Failed to save session: %v", err)
		}
		if err := deps.Config.UpdateProfile(func(p *config.Profile) { p.Email = email }); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Signed in as %s (%s)\n", email, roleName(resp.RoleID))
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the active profile's session",
	Run: func(cmd *cobra.Command, args []string) {
		deps := mustDeps()
		defer deps.Close()

		if err := deps.Config.UpdateProfile(func(p *config.Profile) {
			p.Token = ""
			p.RoleID = 0
		}); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}
		fmt.Println("Signed out")
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Run: func(cmd *cobra.Command, args []string) {
		deps := mustDeps()
		defer deps.Close()
		requireLogin(deps)

		ctx, cancel := commandContext()
		defer cancel()
		u, err := deps.Client.Me(ctx)
		if err != nil {
			log.Fatalf("Failed to load profile: %v", err)
		}

		fmt.Printf("Name: %s\n", u.Name)
		fmt.Printf("Email: %s\n", u.Email)
		fmt.Printf("Role: %s\n", u.Role)
		if u.RollNo != "" {
			fmt.Printf("Roll no: %s\n", u.RollNo)
		}
		if u.College != "" {
			fmt.Printf("College: %s\n", u.College)
		}
		if u.Department != "" {
			fmt.Printf("Department: %s\n", u.Department)
		}
		fmt.Printf("Chats: %d · Words generated: %d · Streak: %d days\n",
			u.StatsChatCount, u.StatsWordsGenerated, u.ActiveStreak)
	},
}

func roleName(id int) string {
	switch id {
	case auth.RoleSuperAdmin:
		return "super admin"
	case auth.RoleAdmin:
		return "admin"
	case auth.RoleStudent:
		return "student"
	}
	return fmt.Sprintf("role %d", id)
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
