package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/hydrakit/entity"
	"github.com/kbukum/hydrakit/hydra"
	"github.com/kbukum/hydrakit/logger"
)

func newGetCmd(a *app) *cobra.Command {
	var properties []string
	cmd := &cobra.Command{
		Use:   "get <collection> <id|iri>",
		Short: "Fetch one resource",
		Example: "  hydractl get books 12\n" +
			"  hydractl get books /books/12 --property title --property author.name",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(args[0])
			if err != nil {
				return err
			}
			ref, err := parseRef(args[1])
			if err != nil {
				return err
			}
			var opts []hydra.RequestOption
			if len(properties) > 0 {
				opts = append(opts, hydra.WithListOptions(hydra.ListOptions{NoPagination: true, Properties: properties}))
			}
			res, err := svc.Get(cmd.Context(), ref, opts...)
			if err != nil {
				return err
			}
			return render(a, cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringArrayVar(&properties, "property", nil, "Only return this dotted property (repeatable)")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var (
		lf  listFlags
		all bool
	)
	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "List a collection",
		Example: "  hydractl list books --order title:desc --filter author.name=Herbert\n" +
			"  hydractl list books --per-page 50 --all -o yaml",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(args[0])
			if err != nil {
				return err
			}
			opts, err := lf.options()
			if err != nil {
				return err
			}
			if !all || opts.NoPagination {
				res, err := svc.GetAll(cmd.Context(), hydra.WithListOptions(opts))
				if err != nil {
					return err
				}
				return render(a, cmd.OutOrStdout(), res)
			}

			members, err := a.collectPages(cmd, svc, opts)
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), members)
		},
	}
	lf.register(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "Follow hydra:next and print the members of every page")
	return cmd
}

// collectPages walks the collection from opts.PageIndex until the view has
// no next page.
func (a *app) collectPages(cmd *cobra.Command, svc *entity.Service[resource, resource], opts hydra.ListOptions) ([]hydra.Item[resource], error) {
	var members []hydra.Item[resource]
	for {
		res, err := svc.GetAll(cmd.Context(), hydra.WithListOptions(opts))
		if err != nil {
			return nil, err
		}
		if !res.Success {
			if perr := a.print(cmd.OutOrStdout(), res.Error); perr != nil {
				return nil, perr
			}
			return nil, res.Error
		}
		members = append(members, res.Data.Members...)

		if !res.Data.HasNext() {
			return members, nil
		}
		next, ok := res.Data.View.NextPage()
		if !ok || next <= opts.PageIndex+1 {
			return members, nil
		}
		opts.PageIndex = next - 1
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var body bodyFlags
	cmd := &cobra.Command{
		Use:     "create <collection>",
		Short:   "Create a resource",
		Example: `  hydractl create books -d '{"title":"Dune"}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(args[0])
			if err != nil {
				return err
			}
			data, err := body.read(cmd.InOrStdin())
			if err != nil {
				return err
			}
			res, err := svc.Create(cmd.Context(), data)
			if err != nil {
				return err
			}
			return render(a, cmd.OutOrStdout(), res)
		},
	}
	body.register(cmd)
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	return newWriteCmd(a, "update", "Merge-patch a resource", (*entity.Service[resource, resource]).Update)
}

func newReplaceCmd(a *app) *cobra.Command {
	return newWriteCmd(a, "replace", "Replace a resource", (*entity.Service[resource, resource]).Replace)
}

type writeFunc func(*entity.Service[resource, resource], context.Context, entity.Target[resource], ...hydra.RequestOption) (hydra.Result[hydra.Item[resource]], error)

// newWriteCmd builds update and replace. Without an id argument the target
// comes from the body's @id or id member.
func newWriteCmd(a *app, use, short string, write writeFunc) *cobra.Command {
	var body bodyFlags
	cmd := &cobra.Command{
		Use:     use + " <collection> [id|iri]",
		Short:   short,
		Example: "  hydractl " + use + ` books 12 -d '{"title":"Dune Messiah"}'` + "\n  hydractl " + use + ` books -f book.json`,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(args[0])
			if err != nil {
				return err
			}
			data, err := body.read(cmd.InOrStdin())
			if err != nil {
				return err
			}
			target := entity.Self(data)
			if len(args) == 2 {
				ref, err := parseRef(args[1])
				if err != nil {
					return err
				}
				target = entity.At(ref, data)
			}
			res, err := write(svc, cmd.Context(), target)
			if err != nil {
				return err
			}
			return render(a, cmd.OutOrStdout(), res)
		},
	}
	body.register(cmd)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <collection> <id|iri>",
		Short:   "Delete a resource",
		Example: "  hydractl delete books 12",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(args[0])
			if err != nil {
				return err
			}
			ref, err := parseRef(args[1])
			if err != nil {
				return err
			}
			res, err := svc.Delete(cmd.Context(), ref)
			if err != nil {
				return err
			}
			if !res.Success {
				return render(a, cmd.OutOrStdout(), res)
			}
			path, _ := svc.Resolve(ref)
			a.log.Debug("Resource deleted", logger.Fields("path", path))
			return a.print(cmd.OutOrStdout(), map[string]string{"deleted": path})
		},
	}
}
