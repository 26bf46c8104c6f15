// Command pustakghar is a terminal front end for the PustakGhar
// account API, standing in for the mobile screens: it reads state from
// the session store and dispatches intents into it.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/w3bpiyush/pustakghar/domain"
	"github.com/w3bpiyush/pustakghar/internal/config"
	"github.com/w3bpiyush/pustakghar/internal/forms"
	"github.com/w3bpiyush/pustakghar/internal/infrastructure/authapi"
	"github.com/w3bpiyush/pustakghar/internal/infrastructure/credstore"
	"github.com/w3bpiyush/pustakghar/internal/session"
)

var cfgPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pustakghar",
		Short:         "PustakGhar account client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "config/config.yml", "path to config file")
	root.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newVerifyOTPCmd(),
		newWhoamiCmd(),
		newLogoutCmd(),
	)
	return root
}

func buildSession() (*session.Manager, *session.Store, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	creds, err := buildCredentialStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	api := authapi.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger)
	store := session.NewStore()
	store.Subscribe(func(ev domain.SessionEvent, _ session.Snapshot) {
		logger.WithFields(ev.Fields()).Debug("session transition")
	})
	return session.NewManager(api, creds, store, logger), store, nil
}

func buildCredentialStore(cfg *config.Config) (domain.CredentialStore, error) {
	switch cfg.CredBackend {
	case "file":
		key := cfg.CredKey
		if key == "" {
			key = "pustakghar-dev-key"
		}
		return credstore.NewFile(cfg.CredFile, key)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return credstore.NewRedis(client, cfg.RedisTTL), nil
	case "memory":
		return credstore.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown credential backend %q", cfg.CredBackend)
	}
}

// printFeedback reports the channel outcome the way a screen would.
func printFeedback(snap session.Snapshot) {
	switch {
	case snap.Error != "":
		fmt.Println("error:", snap.Error)
	case snap.Message != "":
		fmt.Println(snap.Message)
	}
	switch {
	case snap.OTPError != "":
		fmt.Println("error:", snap.OTPError)
	case snap.OTPMessage != "":
		fmt.Println(snap.OTPMessage)
	}
}

func newLoginCmd() *cobra.Command {
	var phone, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with phone number and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, store, err := buildSession()
			if err != nil {
				return err
			}
			form := forms.NewLoginForm(store)
			form.SetPhoneNumber(phone)
			form.SetPassword(password)

			err = form.Submit(context.Background(), mgr)
			printFeedback(store.Snapshot())
			if err != nil {
				return fmt.Errorf("login failed")
			}
			if user := store.Snapshot().User; user != nil {
				fmt.Printf("logged in as %s (%s)\n", user.Name, user.PhoneNumber)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.MarkFlagRequired("phone")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var name, phone, password, confirm string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, store, err := buildSession()
			if err != nil {
				return err
			}
			form := forms.NewRegisterForm(store)
			form.SetFullName(name)
			form.SetPhoneNumber(phone)
			form.SetPassword(password)
			form.SetConfirmPassword(confirm)

			err = form.Submit(context.Background(), mgr)
			printFeedback(store.Snapshot())
			if err != nil {
				return fmt.Errorf("registration failed")
			}
			fmt.Println("verify your phone with: pustakghar verify-otp --phone", phone, "--otp <code>")
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "password confirmation")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("phone")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("confirm")
	return cmd
}

func newVerifyOTPCmd() *cobra.Command {
	var phone, otp string
	cmd := &cobra.Command{
		Use:   "verify-otp",
		Short: "Verify the OTP sent to your phone",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, store, err := buildSession()
			if err != nil {
				return err
			}
			form := forms.NewOTPForm(store, phone)
			form.SetOTP(otp)

			err = form.Submit(context.Background(), mgr)
			printFeedback(store.Snapshot())
			if err != nil {
				return fmt.Errorf("otp verification failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&otp, "otp", "", "6-digit code")
	cmd.MarkFlagRequired("phone")
	cmd.MarkFlagRequired("otp")
	return cmd
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session, restoring it from storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, store, err := buildSession()
			if err != nil {
				return err
			}
			// Auto-login is silent; a failure just leaves us logged out.
			_ = mgr.LoadFromStorage(context.Background())

			if user := store.Snapshot().User; user != nil {
				fmt.Printf("%s (%s)\n", user.Name, user.PhoneNumber)
				return nil
			}
			fmt.Println("not logged in")
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, _, err := buildSession()
			if err != nil {
				return err
			}
			if err := mgr.Logout(context.Background()); err != nil {
				return err
			}
			fmt.Println("logged out")
			return nil
		},
	}
}
