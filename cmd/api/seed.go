package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/services"
)

const demoPassword = "password123"

type seedAccount struct {
	user     *models.User
	password string
}

// demoAccounts are the admin, doctor and patient accounts used for local
// testing. Only the admin credentials are configurable.
func demoAccounts(adminEmail, adminPassword string) []seedAccount {
	dob := time.Date(1990, time.May, 15, 0, 0, 0, 0, time.UTC)
	return []seedAccount{
		{
			user: &models.User{
				FullName:    "Admin System",
				Email:       strings.ToLower(strings.TrimSpace(adminEmail)),
				Role:        models.RoleAdmin,
				PhoneNumber: "0123456789",
				IsActive:    true,
				IsApproved:  true,
			},
			password: adminPassword,
		},
		{
			user: &models.User{
				FullName:       "Dr. Nguyen Van A",
				Email:          "doctor@healthcare.com",
				Role:           models.RoleDoctor,
				PhoneNumber:    "0987654321",
				Specialization: "Internal medicine",
				LicenseNumber:  "BS001234567",
				Experience:     10,
				Workplace:      "Central General Hospital",
				Education:      "Hanoi Medical University",
				Certifications: []string{"Specialist level I", "Practice certificate"},
				IsActive:       true,
				IsApproved:     true,
			},
			password: demoPassword,
		},
		{
			user: &models.User{
				FullName:    "Nguyen Thi B",
				Email:       "patient@healthcare.com",
				Role:        models.RolePatient,
				PhoneNumber: "0123987654",
				DateOfBirth: &dob,
				Gender:      "female",
				Address:     "123 ABC Street, District 1, HCMC",
				BloodType:   "O+",
				Allergies:   []string{"Penicillin"},
				EmergencyContact: &models.EmergencyContact{
					Name:         "Nguyen Van C",
					Relationship: "Husband",
					PhoneNumber:  "0987123456",
				},
				IsActive:   true,
				IsApproved: true,
			},
			password: demoPassword,
		},
	}
}

// seedAccounts creates every account whose email is not registered yet and
// returns the emails it created.
func seedAccounts(ctx context.Context, auth *services.AuthService, accounts []seedAccount) ([]string, error) {
	var created []string
	for _, acc := range accounts {
		ok, err := auth.Seed(ctx, acc.user, acc.password)
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", acc.user.Email, err)
		}
		if ok {
			created = append(created, acc.user.Email)
		}
	}
	return created, nil
}

func seedCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the demo admin, doctor and patient accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if email == "" {
				email = a.cfg.AdminEmail
			}
			if password == "" {
				password = a.cfg.AdminPassword
			}
			if email == "" || len(password) < 6 {
				return fmt.Errorf("admin email is required and the password needs at least 6 characters")
			}

			created, err := seedAccounts(cmd.Context(), a.svc.Auth, demoAccounts(email, password))
			for _, e := range created {
				a.log.Info().Str("email", e).Msg("account created")
			}
			if err != nil {
				return err
			}
			if len(created) == 0 {
				a.log.Info().Msg("all demo accounts already exist")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "admin-email", "", "admin email (default ADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "admin-password", "", "admin password (default ADMIN_PASSWORD)")
	return cmd
}
