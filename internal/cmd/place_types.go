package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tecsupnav/placesadmin/internal/platform"
	"github.com/tecsupnav/placesadmin/internal/resource"
	"github.com/tecsupnav/placesadmin/internal/ux"
)

var placeTypesCmd = &cobra.Command{
	Use:     "place-types",
	Aliases: []string{"types", "pt"},
	Short:   "Manage place types",
	Long: `Manage the categories places belong to (library, cafeteria, lab...).

Subcommands:
  list    List place types
  show    Show one place type
  create  Create a place type
  update  Change fields of a place type
  delete  Delete a place type
  stats   Show place type counts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var placeTypesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List place types",
	Long: `List place types one page at a time.

Examples:
  placesadmin place-types list
  placesadmin place-types list --status active --search lab
  placesadmin place-types list --sort-by name --sort-order asc -o json`,
	Args: cobra.NoArgs,
	RunE: withEnv(runPlaceTypesList),
}

var placeTypesShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one place type",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runPlaceTypesShow),
}

var placeTypesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a place type",
	Long: `Create a place type. The name is prompted for when omitted in a
terminal.

Examples:
  placesadmin place-types create --nombre Auditorio
  placesadmin place-types create --nombre Biblioteca --icono book --color "#1e40af"`,
	Args: cobra.NoArgs,
	RunE: withEnv(runPlaceTypesCreate),
}

var placeTypesUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change fields of a place type",
	Long: `Change fields of a place type. Only the flags given are sent; an empty
value clears an optional field.

Examples:
  placesadmin place-types update pt-1 --nombre "Biblioteca Central"
  placesadmin place-types update pt-3 --active=true
  placesadmin place-types update pt-1 --icono ""`,
	Args: cobra.ExactArgs(1),
	RunE: withEnv(runPlaceTypesUpdate),
}

var placeTypesDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a place type",
	Long: `Delete a place type. The backend refuses while places still use it.

Examples:
  placesadmin place-types delete pt-3
  placesadmin place-types delete pt-3 --force`,
	Args: cobra.ExactArgs(1),
	RunE: withEnv(runPlaceTypesDelete),
}

var placeTypesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show place type counts",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runPlaceTypesStats),
}

var (
	ptListPage      int
	ptListLimit     int
	ptListSearch    string
	ptListStatus    string
	ptListSortBy    string
	ptListSortOrder string

	ptNombre      string
	ptDescripcion string
	ptIcono       string
	ptColor       string
	ptActive      bool
	ptForce       bool
)

func init() {
	lf := placeTypesListCmd.Flags()
	lf.IntVar(&ptListPage, "page", 1, "page number")
	lf.IntVar(&ptListLimit, "limit", 0, "page size (default from config)")
	lf.StringVar(&ptListSearch, "search", "", "filter by name")
	lf.StringVar(&ptListStatus, "status", "all", "active, inactive or all")
	lf.StringVar(&ptListSortBy, "sort-by", "", "name, createdAt or updatedAt")
	lf.StringVar(&ptListSortOrder, "sort-order", "", "asc or desc")

	for _, c := range []*cobra.Command{placeTypesCreateCmd, placeTypesUpdateCmd} {
		f := c.Flags()
		f.StringVar(&ptNombre, "nombre", "", "name")
		f.StringVar(&ptDescripcion, "descripcion", "", "description")
		f.StringVar(&ptIcono, "icono", "", "icon name")
		f.StringVar(&ptColor, "color", "", "hex color, e.g. #1e40af")
	}
	placeTypesUpdateCmd.Flags().BoolVar(&ptActive, "active", true, "set the status")
	placeTypesDeleteCmd.Flags().BoolVar(&ptForce, "force", false, "skip the confirmation")

	placeTypesCmd.AddCommand(placeTypesListCmd, placeTypesShowCmd, placeTypesCreateCmd,
		placeTypesUpdateCmd, placeTypesDeleteCmd, placeTypesStatsCmd)
	rootCmd.AddCommand(placeTypesCmd)
}

func runPlaceTypesList(ctx context.Context, env *environment, _ *cobra.Command, _ []string) error {
	if err := env.requireLogin(ctx); err != nil {
		return err
	}
	active, err := parseStatus(ptListStatus)
	if err != nil {
		return err
	}
	limit := ptListLimit
	if limit <= 0 {
		limit = env.cfg.PageSize()
	}

	list := resource.NewPlaceTypes(env.client, platform.PlaceTypeQuery{Page: platform.Ptr(1), Limit: &limit})
	if err := list.Fetch(ctx, platform.PlaceTypeQuery{
		Page:      platform.Ptr(ptListPage),
		Search:    nonEmpty(ptListSearch),
		IsActive:  active,
		SortBy:    nonEmpty(ptListSortBy),
		SortOrder: nonEmpty(ptListSortOrder),
	}); err != nil {
		return err
	}
	st := list.State()
	return env.print(ux.PlaceTypeList{Items: st.Items, Pagination: st.Pagination})
}

func runPlaceTypesShow(ctx context.Context, env *environment, _ *cobra.Command, args []string) error {
	if err := env.requireLogin(ctx); err != nil {
		return err
	}
	pt := resource.NewPlaceType(env.client, args[0])
	if err := pt.Fetch(ctx); err != nil {
		return err
	}
	data, err := loaded(pt.State())
	if err != nil {
		return err
	}
	return env.print(ux.PlaceTypeDetail{PlaceType: data})
}

func runPlaceTypesCreate(ctx context.Context, env *environment, _ *cobra.Command, _ []string) error {
	if err := env.requireLogin(ctx); err != nil {
		return err
	}
	nombre := ptNombre
	if nombre == "" && interactive() {
		var err error
		if nombre, err = promptText("Nombre", "", true); err != nil {
			return err
		}
	}

	created, err := env.client.CreatePlaceType(ctx, platform.CreatePlaceTypeInput{
		Nombre:      nombre,
		Descripcion: nonEmpty(ptDescripcion),
		Icono:       nonEmpty(ptIcono),
		Color:       nonEmpty(ptColor),
	})
	if err != nil {
		return err
	}
	return env.print(ux.PlaceTypeDetail{PlaceType: *created})
}

func runPlaceTypesUpdate(ctx context.Context, env *environment, cmd *cobra.Command, args []string) error {
	if err := requireChanges(cmd, "nombre", "descripcion", "icono", "color", "active"); err != nil {
		return err
	}
	if err := env.requireLogin(ctx); err != nil {
		return err
	}

	pt := resource.NewPlaceType(env.client, args[0])
	updated, err := pt.Update(ctx, platform.UpdatePlaceTypeInput{
		Nombre:      changedString(cmd, "nombre", ptNombre),
		Descripcion: changedString(cmd, "descripcion", ptDescripcion),
		Icono:       changedString(cmd, "icono", ptIcono),
		Color:       changedString(cmd, "color", ptColor),
		IsActive:    changedBool(cmd, "active", ptActive),
	})
	if err != nil {
		return err
	}
	return env.print(ux.PlaceTypeDetail{PlaceType: *updated})
}

func runPlaceTypesDelete(ctx context.Context, env *environment, cmd *cobra.Command, args []string) error {
	if err := env.requireLogin(ctx); err != nil {
		return err
	}
	id := args[0]
	if err := confirmDestructive(ptForce, fmt.Sprintf("Delete place type %s?", id)); err != nil {
		return err
	}
	if err := env.client.DeletePlaceType(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s place type %s deleted\n", env.theme.Success.Render("✓"), id)
	return nil
}

func runPlaceTypesStats(ctx context.Context, env *environment, _ *cobra.Command, _ []string) error {
	if err := env.requireLogin(ctx); err != nil {
		return err
	}
	stats := resource.NewPlaceTypeStats(env.client)
	if err := stats.Fetch(ctx); err != nil {
		return err
	}
	data, err := loaded(stats.State())
	if err != nil {
		return err
	}
	return env.print(ux.PlaceTypeStatsView{PlaceTypeStats: data})
}
