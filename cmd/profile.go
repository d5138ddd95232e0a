package cmd

import (
	"fmt"
	"log"
	"net/url"
	"sort"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/RoriQuery/internal/config"
	"github.com/Rorical/RoriQuery/ui/styles"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage backend profiles",
	Long:  `Manage profiles for different RoriQuery backends. Each profile keeps its own base URL and login session.`,
}

var listProfilesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		fmt.Printf("Active Profile: %s\n\n", cfg.ActiveProfile)
		fmt.Println("Available Profiles:")
		for _, name := range profileNames(cfg, "") {
			profile := cfg.Profiles[name]
			marker := ""
			if name == cfg.ActiveProfile {
				marker = " (active)"
			}
			fmt.Printf("  %s%s\n", name, marker)
			fmt.Printf("    Base URL: %s\n", profile.BaseURL)
			fmt.Printf("    Signed in: %s\n", signedIn(profile))
			fmt.Println()
		}
	},
}

var showProfileCmd = &cobra.Command{
	Use:   "show [profile-name]",
	Short: "Show profile details",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		profileName := args[0]
		profile, exists := cfg.Profiles[profileName]
		if !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		fmt.Printf("Profile: %s\n", profileName)
		fmt.Printf("Base URL: %s\n", profile.BaseURL)
		fmt.Printf("Theme: %s\n", styles.Get(profile.Theme).Name)
		if profile.RequestsPerSecond > 0 {
			fmt.Printf("Rate limit: %g req/s\n", profile.RequestsPerSecond)
		}
		fmt.Printf("Signed in: %s\n", signedIn(profile))
	},
}

var addProfileCmd = &cobra.Command{
	Use:   "add [profile-name]",
	Short: "Add a new profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			prompt := promptui.Prompt{
				Label: "Profile name",
			}
			profileName, err = prompt.Run()
			if err != nil {
				log.Fatalf("Prompt failed: %v", err)
			}
		}

		if _, exists := cfg.Profiles[profileName]; exists {
			log.Fatalf("Profile '%s' already exists", profileName)
		}

		profile, err := promptProfile(config.DefaultProfile())
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}

		cfg.Profiles[profileName] = profile

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' added successfully!\n", profileName)
	},
}

var editProfileCmd = &cobra.Command{
	Use:   "edit [profile-name]",
	Short: "Edit an existing profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		profileName, err := pickProfile(cfg, args, "Select profile to edit", "")
		if err != nil {
			log.Fatalf("Selection failed: %v", err)
		}

		profile, exists := cfg.Profiles[profileName]
		if !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		edited, err := promptProfile(profile)
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}
		// A token belongs to the backend it was issued by.
		if edited.BaseURL != profile.BaseURL {
			edited.Token = ""
			edited.RoleID = 0
		}

		cfg.Profiles[profileName] = edited

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' updated successfully!\n", profileName)
	},
}

var deleteProfileCmd = &cobra.Command{
	Use:   "delete [profile-name]",
	Short: "Delete a profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		profileName, err := pickProfile(cfg, args, "Select profile to delete", "")
		if err != nil {
			log.Fatalf("Selection failed: %v", err)
		}

		if _, exists := cfg.Profiles[profileName]; !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		confirmPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete profile '%s'? (y/N)", profileName),
			IsConfirm: true,
		}
		if _, err := confirmPrompt.Run(); err != nil {
			fmt.Println("Deletion cancelled")
			return
		}

		if cfg.ActiveProfile == profileName {
			for _, name := range profileNames(cfg, profileName) {
				cfg.ActiveProfile = name
				break
			}
			// The last profile is replaced by a fresh default one.
			if len(cfg.Profiles) == 1 {
				cfg.ActiveProfile = "default"
				cfg.Profiles["default"] = config.DefaultProfile()
			}
		}

		delete(cfg.Profiles, profileName)

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' deleted successfully!\n", profileName)
	},
}

var switchProfileCmd = &cobra.Command{
	Use:   "switch [profile-name]",
	Short: "Switch to a different profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		if len(args) == 0 && len(profileNames(cfg, cfg.ActiveProfile)) == 0 {
			fmt.Println("No other profiles available to switch to")
			return
		}
		profileName, err := pickProfile(cfg, args, "Select profile to switch to", cfg.ActiveProfile)
		if err != nil {
			log.Fatalf("Selection failed: %v", err)
		}

		if err := switchProfile(cfg, profileName); err != nil {
			log.Fatal(err)
		}

		fmt.Printf("Switched to profile '%s'\n", profileName)
	},
}

func switchProfile(cfg *config.Config, profileName string) error {
	if err := cfg.Switch(profileName); err != nil {
		return fmt.Errorf("failed to switch profile: %w", err)
	}
	return nil
}

// profileNames returns the sorted profile names, leaving out skip.
func profileNames(cfg *config.Config, skip string) []string {
	names := make([]string, 0, len(cfg.Profiles))
	for name := range cfg.Profiles {
		if name != skip {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func pickProfile(cfg *config.Config, args []string, label, skip string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	names := profileNames(cfg, skip)
	if len(names) == 0 {
		return "", fmt.Errorf("no profiles available")
	}
	prompt := promptui.Select{
		Label: label,
		Items: names,
	}
	_, name, err := prompt.Run()
	return name, err
}

func promptProfile(profile config.Profile) (config.Profile, error) {
	baseURLPrompt := promptui.Prompt{
		Label:    "Base URL",
		Default:  profile.BaseURL,
		Validate: validateURL,
	}
	baseURL, err := baseURLPrompt.Run()
	if err != nil {
		return profile, err
	}
	profile.BaseURL = baseURL

	themePrompt := promptui.Select{
		Label:     "Theme",
		Items:     styles.Names(),
		CursorPos: themeIndex(profile.Theme),
	}
	if _, profile.Theme, err = themePrompt.Run(); err != nil {
		return profile, err
	}

	ratePrompt := promptui.Prompt{
		Label:    "Requests per second (0 for unlimited)",
		Default:  strconv.FormatFloat(profile.RequestsPerSecond, 'f', -1, 64),
		Validate: validateRate,
	}
	rate, err := ratePrompt.Run()
	if err != nil {
		return profile, err
	}
	profile.RequestsPerSecond, _ = strconv.ParseFloat(rate, 64)
	return profile, nil
}

func themeIndex(name string) int {
	for i, n := range styles.Names() {
		if n == styles.Get(name).Name {
			return i
		}
	}
	return 0
}

func validateURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("enter an http(s) URL")
	}
	return nil
}

func validateRate(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return fmt.Errorf("enter a number >= 0")
	}
	return nil
}

func signedIn(p config.Profile) string {
	if p.Token == "" {
		return "No"
	}
	if p.Email != "" {
		return "Yes (" + p.Email + ")"
	}
	return "Yes"
}

func init() {
	profileCmd.AddCommand(listProfilesCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(addProfileCmd)
	profileCmd.AddCommand(editProfileCmd)
	profileCmd.AddCommand(deleteProfileCmd)
	profileCmd.AddCommand(switchProfileCmd)
}
