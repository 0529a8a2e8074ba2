package commands

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fivetwenty-io/timeback/internal/constants"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/spf13/cobra"
)

// listFlags are the query options shared by every list command.
type listFlags struct {
	limit    int
	offset   int
	filter   string
	sort     string
	desc     bool
	fields   []string
	allPages bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.limit, "limit", constants.StandardPageSize, "results per page")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "records to skip")
	cmd.Flags().StringVar(&f.filter, "filter", "", "filter expression, e.g. \"status='active' AND givenName~'an'\"")
	cmd.Flags().StringVar(&f.sort, "sort", "", "field to sort by")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "sort descending")
	cmd.Flags().StringSliceVar(&f.fields, "fields", nil, "properties to return")
	cmd.Flags().BoolVar(&f.allPages, "all", false, "fetch all pages")
}

// params builds query parameters. Extra filters are ANDed with --filter.
func (f *listFlags) params(extra ...string) *timeback.QueryParams {
	params := timeback.NewQueryParams().WithLimit(f.limit).WithOffset(f.offset)

	if f.sort != "" {
		direction := timeback.SortAsc
		if f.desc {
			direction = timeback.SortDesc
		}

		params.WithSort(f.sort, direction)
	}

	if len(f.fields) > 0 {
		params.WithFields(f.fields...)
	}

	filter := timeback.And(extra...)

	switch {
	case f.filter == "":
	case filter == "":
		filter = f.filter
	default:
		filter = timeback.And("("+f.filter+")", filter)
	}

	if filter != "" {
		params.WithFilter(filter)
	}

	return params
}

// runList fetches one page, or every page with --all, and renders it.
func runList[T any](ctx context.Context, w io.Writer, list timeback.ListFunc[T], flags *listFlags, params *timeback.QueryParams, table func(io.Writer, []T) error) error {
	if flags.allPages {
		items, err := timeback.FetchAll(ctx, list, params)
		if err != nil {
			return err
		}

		return renderOutput(w, items, func(w io.Writer) error {
			return table(w, items)
		})
	}

	page, err := list(ctx, params)
	if err != nil {
		return err
	}

	return renderOutput(w, page, func(w io.Writer) error {
		err := table(w, page.Items)
		if err != nil {
			return err
		}

		renderPageFooter(w, params.Offset+len(page.Items), page.TotalCount)

		return nil
	})
}

// withClient resolves the client and runs fn with the command's context.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, client timeback.Client) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := CreateClient(ctx)
	if err != nil {
		return err
	}

	return fn(ctx, client)
}

func wrapErr(action string, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("failed to %s: %w", action, err)
}

var (
	userRoles = []string{
		timeback.RoleAdministrator, timeback.RoleAide, timeback.RoleGuardian, timeback.RoleParent,
		timeback.RoleProctor, timeback.RoleStudent, timeback.RoleTeacher,
	}
	enrollmentRoles = []string{timeback.RoleAdministrator, timeback.RoleProctor, timeback.RoleStudent, timeback.RoleTeacher}
	recordStatuses  = []string{string(timeback.StatusActive), string(timeback.StatusToBeDeleted)}
)

// checkChoice rejects a non-empty flag value outside allowed.
func checkChoice(flag, value string, allowed []string, sentinel error) error {
	if value == "" || slices.Contains(allowed, value) {
		return nil
	}

	return fmt.Errorf("%w %q for --%s, expected one of: %s", sentinel, value, flag, strings.Join(allowed, ", "))
}
