package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ht101996/tomahawk/internal/adapters/prompt/terminal"
	aclrender "github.com/ht101996/tomahawk/internal/adapters/render/acl"
	"github.com/ht101996/tomahawk/internal/application"
	"github.com/ht101996/tomahawk/internal/domain"
	"github.com/ht101996/tomahawk/internal/ports"
	"github.com/spf13/cobra"
)

type identityOutput struct {
	ID           string   `json:"id"`
	TransportIDs []string `json:"transport_ids"`
	AccountIDs   []string `json:"account_ids"`
	Decision     string   `json:"decision"`
}

func newACLCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "acl",
		Short: "Inspect and decide peer access",
	}

	cmd.AddCommand(
		newACLListCmd(app),
		newACLAuthorizeCmd(app),
	)

	return cmd
}

func newACLListCmd(app *app) *cobra.Command {
	var asJSON bool
	var showIDs bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known peer identities and their decisions",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			store, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, closeStore())
			}()

			identities, err := store.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load acl identities: %w", err)
			}

			return writeIdentitiesOutput(cmd, app, identities, asJSON, showIDs)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print identities as JSON")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "Show identity ids")

	return cmd
}

func writeIdentitiesOutput(cmd *cobra.Command, app *app, identities []domain.Identity, asJSON bool, showIDs bool) error {
	if asJSON {
		out := make([]identityOutput, 0, len(identities))
		for _, identity := range identities {
			out = append(out, identityOutput{
				ID:           string(identity.ID),
				TransportIDs: nonNilKeys(identity.KnownTransportIDs),
				AccountIDs:   nonNilKeys(identity.KnownAccountIDs),
				Decision:     identity.Decision.String(),
			})
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	rendered, err := app.aclRenderer(identities, aclrender.RenderOptions{ShowIDs: showIDs})
	if err != nil {
		return fmt.Errorf("render acl: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func newACLAuthorizeCmd(app *app) *cobra.Command {
	var (
		transportID string
		accountID   string
		policy      string
		headless    bool
	)

	cmd := &cobra.Command{
		Use:   "authorize",
		Short: "Decide whether a peer may access the collection",
		Long:  "authorize looks the peer up in the access list. Unknown peers get the --policy decision when one is given; otherwise you are asked, unless running headless.",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			globalPolicy, err := domain.ParseDecision(policy)
			if err != nil {
				return fmt.Errorf("parse --policy: %w", err)
			}

			store, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, closeStore())
			}()

			var surface ports.DecisionSurface
			if !headless && !app.cfg.ACL.Headless {
				surface = terminal.NewSurface(cmd.InOrStdin(), cmd.OutOrStdout(), app.logger)
			}

			result, err := authorizePeer(cmd.Context(), app, store, surface, application.AuthorizationRequest{
				TransportID:  transportID,
				AccountID:    accountID,
				GlobalPolicy: globalPolicy,
			})
			if err != nil {
				return err
			}

			label := result.Decision.String()
			if result.Pending {
				label = "pending"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", result.TransportID, result.AccountID, label)
			return err
		},
	}

	cmd.Flags().StringVar(&transportID, "transport", "", "Transport id the peer connected from")
	cmd.Flags().StringVar(&accountID, "account", "", "Account id the peer claims")
	cmd.Flags().StringVar(&policy, "policy", "", "Decision for unknown peers (deny|ask|allow-stream|allow-all)")
	cmd.Flags().BoolVar(&headless, "headless", false, "Never prompt; unknown peers stay pending")
	cmd.MarkFlagsOneRequired("transport", "account")

	return cmd
}

// authorizePeer runs a registry for the duration of one request and waits
// for the prompt answer when the peer has to be asked.
func authorizePeer(ctx context.Context, app *app, store ports.AuthorizationStore, surface ports.DecisionSurface, req application.AuthorizationRequest) (domain.Authorization, error) {
	registry := application.NewAclRegistry(store, surface, application.RegistryOptions{
		Clock:         app.clock,
		Logger:        app.logger,
		PromptTimeout: app.cfg.ACL.PromptTimeout,
	})

	results := make(chan domain.Authorization, 1)
	unsubscribe := registry.Subscribe(func(result domain.Authorization) {
		if result.TransportID != req.TransportID || result.AccountID != req.AccountID {
			return
		}
		select {
		case results <- result:
		default:
		}
	})
	defer unsubscribe()

	ctx, cancel := context.WithCancel(ctx)
	runErr := make(chan error, 1)
	go func() {
		runErr <- registry.Run(ctx)
	}()
	defer func() {
		cancel()
		<-runErr
	}()

	result, err := registry.Authorize(ctx, req)
	if err != nil {
		return domain.Authorization{}, fmt.Errorf("authorize peer: %w", err)
	}
	if !result.Pending || !registry.Interactive() {
		return result, nil
	}

	select {
	case result = <-results:
		return result, nil
	case <-ctx.Done():
		return domain.Authorization{}, ctx.Err()
	}
}

func nonNilKeys(keys []string) []string {
	if keys == nil {
		return []string{}
	}
	return keys
}
