package users

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-extras/cobraflags"
	"github.com/scienceol/labinv/pkg/common"
	"github.com/scienceol/labinv/pkg/common/uuid"
	"github.com/scienceol/labinv/pkg/core/directory"
	impl "github.com/scienceol/labinv/pkg/core/directory/directory"
	"github.com/scienceol/labinv/pkg/core/directory/projection"
	"github.com/scienceol/labinv/pkg/core/notify/events"
	"github.com/scienceol/labinv/pkg/middleware/auth"
	"github.com/scienceol/labinv/pkg/repo/labapi"
	"github.com/scienceol/labinv/pkg/repo/viewstate"
	"github.com/scienceol/labinv/pkg/utils"
	"github.com/spf13/cobra"
)

const (
	roleFlag        = "role"
	searchFlag      = "search"
	designationFlag = "designation"
	laboratoryFlag  = "laboratory"
	statusFlag      = "status"
	sortFlag        = "sort"
	pageFlag        = "page"
	exportFlag      = "export"
)

var listFlags = map[string]cobraflags.Flag{
	roleFlag: &cobraflags.StringFlag{
		Name:  roleFlag,
		Value: string(common.SuperAdmin),
		Usage: "Role the listing is narrowed for (admin or superadmin)",
	},
	searchFlag: &cobraflags.StringFlag{
		Name:  searchFlag,
		Value: "",
		Usage: "Free text query over name, laboratory, designation and status",
	},
	designationFlag: &cobraflags.StringFlag{
		Name:  designationFlag,
		Value: "",
		Usage: "Comma separated designations to keep",
	},
	laboratoryFlag: &cobraflags.StringFlag{
		Name:  laboratoryFlag,
		Value: "",
		Usage: "Comma separated laboratories to keep",
	},
	statusFlag: &cobraflags.StringFlag{
		Name:  statusFlag,
		Value: "",
		Usage: "Comma separated account statuses to keep",
	},
	sortFlag: &cobraflags.StringFlag{
		Name:  sortFlag,
		Value: "",
		Usage: "Column to sort by, prefix with - for descending (e.g. -userId)",
	},
	pageFlag: &cobraflags.StringFlag{
		Name:  pageFlag,
		Value: "1",
		Usage: "Page to print",
	},
	exportFlag: &cobraflags.StringFlag{
		Name:  exportFlag,
		Value: "",
		Usage: "Write every visible user to this xlsx file instead of printing a page",
	},
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "users",
		Short:        "List or export the lab user directory",
		Long:         "Fetch the user directory from the lab API, narrow it like the admin screen does and print one page or export it.",
		SilenceUsage: true,
		RunE:         listUsers,
	}
	cobraflags.RegisterMap(cmd, listFlags)
	return cmd
}

func listUsers(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	role := common.Role(listFlags[roleFlag].GetString())
	if !role.IsAdministrator() {
		return fmt.Errorf("role %q cannot view the user directory", role)
	}
	sess := &auth.Session{UserID: 1, Role: role, ViewKey: uuid.NewV4()}
	svc := impl.NewService(labapi.New(), viewstate.NewMemoryStore(), events.NewLocal(), nil)

	result, err := svc.Mount(ctx, sess)
	if err != nil {
		return err
	}
	for _, f := range []struct {
		facet projection.Facet
		flag  string
	}{
		{projection.FacetDesignation, designationFlag},
		{projection.FacetLaboratory, laboratoryFlag},
		{projection.FacetStatus, statusFlag},
	} {
		for _, value := range splitList(listFlags[f.flag].GetString()) {
			if result, err = svc.Facet(ctx, sess, &directory.FacetReq{Facet: f.facet, Value: value}); err != nil {
				return err
			}
		}
	}
	if query := listFlags[searchFlag].GetString(); query != "" {
		if result, err = svc.Search(ctx, sess, &directory.SearchReq{Query: query}); err != nil {
			return err
		}
	}
	if column := listFlags[sortFlag].GetString(); column != "" {
		desc := strings.HasPrefix(column, "-")
		req := &directory.SortReq{Column: projection.Column(strings.TrimPrefix(column, "-"))}
		if result, err = svc.Sort(ctx, sess, req); err != nil {
			return err
		}
		if desc {
			if result, err = svc.Sort(ctx, sess, req); err != nil {
				return err
			}
		}
	}

	if path := listFlags[exportFlag].GetString(); path != "" {
		file, err := svc.Export(ctx, sess)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, file.Data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d users to %s\n", result.Total, path)
		return nil
	}

	page, err := strconv.Atoi(listFlags[pageFlag].GetString())
	if err != nil {
		return fmt.Errorf("invalid page: %w", err)
	}
	if result, err = svc.Page(ctx, sess, &directory.PageReq{Page: page}); err != nil {
		return err
	}
	printPage(cmd, result)
	return nil
}

func printPage(cmd *cobra.Command, result *projection.Result) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLAST NAME\tFIRST NAME\tDESIGNATION\tLABORATORY\tSTATUS\tACTIONS")
	for _, row := range result.Rows {
		actions := utils.Ternary(row.Actions.Editable, "edit, delete", "locked")
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.UserID, row.LastName, row.FirstName, row.Designation, row.Laboratory, row.Actions.StatusLabel, actions)
	}
	_ = w.Flush()
	fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d, %d users\n", result.Page, result.TotalPages, result.Total)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
