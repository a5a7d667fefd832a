// Package main provides a CLI tool for generating test tokens for the
// fieldpos API. These tokens use the dev signing key and will NOT work
// against a server configured with a real key.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"fieldpos/internal/jwtauth"
	id "fieldpos/pkg/domain"
)

const (
	// Dev signing key - matches config.go when FIELDPOS_JWT_SIGNING_KEY is
	// not set.
	devSigningKey = "dev-secret-key-change-in-production"

	// Defaults matching config.go.
	defaultIssuer   = "fieldpos"
	defaultAudience = "fieldpos-api"
	defaultTokenTTL = 8 * time.Hour
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Type      string            `json:"type"`
	ExpiresIn string            `json:"expires_in"`
	Claims    map[string]any    `json:"claims,omitempty"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	staffCmd := flag.NewFlagSet("staff", flag.ExitOnError)
	adminCmd := flag.NewFlagSet("admin", flag.ExitOnError)

	// Staff token flags
	staffID := staffCmd.String("staff-id", "", "Staff ID (UUID). Generated if empty.")
	staffTenantID := staffCmd.String("tenant-id", "", "Tenant ID (UUID). Generated if empty.")
	staffBranchID := staffCmd.String("branch-id", "", "Branch ID (UUID, optional). Cashiers and technicians need one.")
	staffRole := staffCmd.String("role", "owner", "Role: owner, cashier, maintenance, or technician")
	staffTTL := staffCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	staffEnv := staffCmd.String("env", "demo", "Environment claim stamped into the token")
	staffKey := staffCmd.String("signing-key", devSigningKey, "HS256 signing key")
	staffJSON := staffCmd.Bool("json", false, "Output as JSON")

	// Admin token flags
	adminID := adminCmd.String("staff-id", "", "Admin staff ID (UUID). Generated if empty.")
	adminTTL := adminCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	adminEnv := adminCmd.String("env", "demo", "Environment claim stamped into the token")
	adminKey := adminCmd.String("signing-key", devSigningKey, "HS256 signing key")
	adminJSON := adminCmd.Bool("json", false, "Output as JSON")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "staff":
		staffCmd.Parse(os.Args[2:])
		generateStaffToken(*staffID, *staffTenantID, *staffBranchID, *staffRole, *staffTTL, *staffEnv, *staffKey, *staffJSON)
	case "admin":
		adminCmd.Parse(os.Args[2:])
		generateAdminToken(*adminID, *adminTTL, *adminEnv, *adminKey, *adminJSON)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Generate test tokens for the fieldpos API

WARNING: These tokens use the dev signing key and will NOT work against a
         server configured with a real FIELDPOS_JWT_SIGNING_KEY.
         Only use for local development and testing.

Usage:
  tokengen <command> [flags]

Commands:
  staff     Generate a staff access token for a tenant role
  admin     Generate a platform admin token (no tenant)

Examples:
  # Owner token for a fresh random tenant
  tokengen staff

  # Cashier bound to a branch
  tokengen staff -role cashier -tenant-id <uuid> -branch-id <uuid>

  # Technician token with a short TTL
  tokengen staff -role technician -tenant-id <uuid> -branch-id <uuid> -ttl 1h

  # Admin bearer token for /api/admin
  tokengen admin

  # Output as JSON
  tokengen staff -json

Use "tokengen <command> -h" for more information about a command.`)
}

func generateStaffToken(staffID, tenantID, branchID, role string, ttl time.Duration, env, signingKey string, jsonOutput bool) {
	sid := id.StaffID(parseOrGenerateUUID(staffID, "staff-id"))
	tid := id.TenantID(parseOrGenerateUUID(tenantID, "tenant-id"))

	var bid id.BranchID
	if branchID != "" {
		parsed, err := id.ParseBranchID(branchID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid branch-id UUID: %s\n", branchID)
			os.Exit(1)
		}
		bid = parsed
	}

	parsedRole := id.Role(strings.ToLower(strings.TrimSpace(role)))

	svc := jwtauth.NewService(signingKey, defaultIssuer, defaultAudience, ttl)
	svc.SetEnv(env)

	token, err := svc.Generate(context.Background(), sid, tid, bid, parsedRole)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(tokenOutput{
			Token:     token,
			Type:      "staff_token",
			ExpiresIn: ttl.String(),
			Claims: map[string]any{
				"staff_id":  sid.String(),
				"tenant_id": tid.String(),
				"branch_id": branchID,
				"role":      parsedRole.String(),
				"env":       env,
			},
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
			},
		})
		return
	}

	fmt.Println("Staff Access Token")
	fmt.Println("==================")
	fmt.Printf("Role:       %s\n", parsedRole)
	fmt.Printf("Expires In: %s\n", ttl)
	fmt.Printf("Staff ID:   %s\n", sid)
	fmt.Printf("Tenant ID:  %s\n", tid)
	if branchID != "" {
		fmt.Printf("Branch ID:  %s\n", branchID)
	}
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/api/...")
}

func generateAdminToken(staffID string, ttl time.Duration, env, signingKey string, jsonOutput bool) {
	sid := id.StaffID(parseOrGenerateUUID(staffID, "staff-id"))

	svc := jwtauth.NewService(signingKey, defaultIssuer, defaultAudience, ttl)
	svc.SetEnv(env)

	// Admins carry no tenant or branch.
	token, err := svc.Generate(context.Background(), sid, id.TenantID{}, id.BranchID{}, id.RoleAdmin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(tokenOutput{
			Token:     token,
			Type:      "admin_token",
			ExpiresIn: ttl.String(),
			Claims: map[string]any{
				"staff_id": sid.String(),
				"role":     id.RoleAdmin.String(),
				"env":      env,
			},
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
				"note":   "The X-Admin-Token bootstrap header is a separate secret configured via FIELDPOS_ADMIN_TOKEN",
			},
		})
		return
	}

	fmt.Println("Platform Admin Token")
	fmt.Println("====================")
	fmt.Printf("Expires In: %s\n", ttl)
	fmt.Printf("Staff ID:   %s\n", sid)
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/api/admin/...")
	fmt.Println()
	fmt.Println("Note: the X-Admin-Token bootstrap header is a separate secret configured via FIELDPOS_ADMIN_TOKEN")
}

func parseOrGenerateUUID(input, fieldName string) uuid.UUID {
	if input == "" {
		return uuid.New()
	}
	parsed, err := uuid.Parse(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid %s UUID: %s\n", fieldName, input)
		os.Exit(1)
	}
	return parsed
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
