package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tecsupnav/placesadmin/internal/platform"
	"github.com/tecsupnav/placesadmin/internal/resource"
	"github.com/tecsupnav/placesadmin/internal/ux"
)

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "Manage places",
	Long: `Manage the located points of interest shown in the campus app.

Subcommands:
  list    List places
  search  Free-text search
  show    Show one place
  create  Create a place
  update  Change fields of a place
  toggle  Activate or deactivate a place
  delete  Delete a place
  stats   Show place counts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var placesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List places",
	Long: `List places one page at a time.

Examples:
  placesadmin places list
  placesadmin places list --tipo pt-2 --edificio "Pabellón A" --piso 1
  placesadmin places list --near-lat -12.045 --near-lng -77.042 --radius 200`,
	Args: cobra.NoArgs,
	RunE: withEnv(runPlacesList),
}

var placesSearchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Free-text search",
	Long: `Search places by name and description. The query needs at least two
characters.

Examples:
  placesadmin places search cafeteria`,
	Args: cobra.ExactArgs(1),
	RunE: withEnv(runPlacesSearch),
}

var placesShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one place",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runPlacesShow),
}

var placesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a place",
	Long: `Create a place. Name, coordinates and type are required.

Examples:
  placesadmin places create --nombre "Cafetería Central" --lat -12.045 --lng -77.042 --tipo pt-2
  placesadmin places create --nombre Auditorio --lat -12.046 --lng -77.043 --tipo pt-1 \
    --edificio "Pabellón B" --piso 2 --image ./auditorio.jpg`,
	Args: cobra.NoArgs,
	RunE: withEnv(runPlacesCreate),
}

var placesUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change fields of a place",
	Long: `Change fields of a place. Only the flags given are sent.

Examples:
  placesadmin places update p-2 --piso 4
  placesadmin places update p-1 --image ./nueva.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: withEnv(runPlacesUpdate),
}

var placesToggleCmd = &cobra.Command{
	Use:   "toggle ID",
	Short: "Activate or deactivate a place",
	Long: `Set the status of a place. Deactivating hides it from the campus app
and asks for confirmation unless --force is given.

Examples:
  placesadmin places toggle p-2 --active
  placesadmin places toggle p-1 --active=false --force`,
	Args: cobra.ExactArgs(1),
	RunE: withEnv(runPlacesToggle),
}

var placesDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a place",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runPlacesDelete),
}

var placesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show place counts",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runPlacesStats),
}

var (
	plListNombre   string
	plListTipo     string
	plListEdificio string
	plListPiso     int
	plListStatus   string
	plListNearLat  float64
	plListNearLng  float64
	plListRadius   float64
	plListPage     int
	plListLimit    int

	plNombre      string
	plDescripcion string
	plLat         float64
	plLng         float64
	plTipo        string
	plEdificio    string
	plPiso        int
	plCodigoQR    string
	plImagenURL   string
	plImage       string
	plInactive    bool
	plActive      bool
	plForce       bool
)

func init() {
	lf := placesListCmd.Flags()
	lf.StringVar(&plListNombre, "nombre", "", "filter by name")
	lf.StringVar(&plListTipo, "tipo", "", "filter by place type id")
	lf.StringVar(&plListEdificio, "edificio", "", "filter by building")
	lf.IntVar(&plListPiso, "piso", 0, "filter by floor")
	lf.StringVar(&plListStatus, "status", "all", "active, inactive or all")
	lf.Float64Var(&plListNearLat, "near-lat", 0, "latitude of the proximity center")
	lf.Float64Var(&plListNearLng, "near-lng", 0, "longitude of the proximity center")
	lf.Float64Var(&plListRadius, "radius", 0, "proximity radius in meters")
	lf.IntVar(&plListPage, "page", 1, "page number")
	lf.IntVar(&plListLimit, "limit", 0, "page size (default from config)")
	placesListCmd.MarkFlagsRequiredTogether("near-lat", "near-lng")

	for _, c := range []*cobra.Command{placesCreateCmd, placesUpdateCmd} {
		f := c.Flags()
		f.StringVar(&plNombre, "nombre", "", "name")
		f.StringVar(&plDescripcion, "descripcion", "", "description (markdown)")
		f.Float64Var(&plLat, "lat", 0, "latitude")
		f.Float64Var(&plLng, "lng", 0, "longitude")
		f.StringVar(&plTipo, "tipo", "", "place type id")
		f.StringVar(&plEdificio, "edificio", "", "building")
		f.IntVar(&plPiso, "piso", 0, "floor")
		f.StringVar(&plCodigoQR, "codigo-qr", "", "QR code")
		f.StringVar(&plImagenURL, "imagen-url", "", "existing image URL")
		f.StringVar(&plImage, "image", "", "image file to upload")
	}
	placesCreateCmd.Flags().BoolVar(&plInactive, "inactive", false, "create the place inactive")
	_ = placesCreateCmd.MarkFlagRequired("lat")
	_ = placesCreateCmd.MarkFlagRequired("lng")
	_ = placesCreateCmd.MarkFlagRequired("tipo")
	placesUpdateCmd.Flags().BoolVar(&plActive, "active", true, "set the status")

	placesToggleCmd.Flags().BoolVar(&plActive, "active", true, "new status")
	placesToggleCmd.Flags().BoolVar(&plForce, "force", false, "skip the confirmation")
	placesDeleteCmd.Flags().BoolVar(&plForce, "force", false, "skip the confirmation")

	placesCmd.AddCommand(placesListCmd, placesSearchCmd, placesShowCmd, placesCreateCmd,
		placesUpdateCmd, placesToggleCmd, placesDeleteCmd, placesStatsCmd)
	rootCmd.AddCommand(placesCmd)
}

func runPlacesList(ctx context.Context, env *environment, cmd *cobra.Command, _ []string) error {
	if err := env.requireLogin(ctx); err != nil {
		return err
	}
	active, err := parseStatus(plListStatus)
	if err != nil {
		return err
	}
	limit := plListLimit
	if limit <= 0 {
		limit = env.cfg.PageSize()
	}

	list := resource.NewPlaces(env.client, platform.PlaceQuery{Page: platform.Ptr(1), Limit: &limit})
	if err := list.Fetch(ctx, platform.PlaceQuery{
		Nombre:   nonEmpty(plListNombre),
		TipoID:   nonEmpty(plListTipo),
		Edificio: nonEmpty(plListEdificio),
		Piso:     changedInt(cmd, "piso", plListPiso),
		IsActive: active,
		NearLat:  changedFloat(cmd, "near-lat", plListNearLat),
		NearLng:  changedFloat(cmd, "near-lng", plListNearLng),
		Radius:   changedFloat(cmd, "radius", plListRadius),
		Page:     platform.Ptr(plListPage),
	}); err != nil {
		return err
	}
	st := list.State()
	return env.print(ux.PlaceList{Items: st.Items, Pagination: st.Pagination})
}

func runPlacesSearch(ctx context.Context, env *environment, _ *cobra.Command, args []string) error {
	if err := env.requireLogin(ctx); err != nil {
		return err
	}
	list := resource.NewPlaces(env.client, platform.PlaceQuery{})
	if _, err := list.Search(ctx, args[0]); err != nil {
		return err
	}
	st := list.State()
	return env.print(ux.PlaceList{Items: st.Items, Pagination: st.Pagination, Search: st.Search})
}

func runPlacesShow(ctx context.Context, env *environment, _ *cobra.Command, args []string) error {
	if err := env.requireLogin(ctx); err != nil {
		return err
	}
	p := resource.NewPlace(env.client, args[0])
	if err := p.Fetch(ctx); err != nil {
		return err
	}
	data, err := loaded(p.State())
	if err != nil {
		return err
	}
	return env.print(ux.PlaceDetail{Place: data})
}

// imageFlag loads --image, or returns nil when it was not given.
func imageFlag() (*platform.Upload, error) {
	if plImage == "" {
		return nil, nil
	}
	return platform.LoadUpload(plImage)
}

func runPlacesCreate(ctx context.Context, env *environment, cmd *cobra.Command, _ []string) error {
	if err := env.requireLogin(ctx); err != nil {
		return err
	}
	nombre := plNombre
	if nombre == "" && interactive() {
		var err error
		if nombre, err = promptText("Nombre", "", true); err != nil {
			return err
		}
	}
	image, err := imageFlag()
	if err != nil {
		return err
	}

	created, err := env.client.CreatePlace(ctx, platform.CreatePlaceInput{
		Nombre:      nombre,
		Latitud:     plLat,
		Longitud:    plLng,
		TipoID:      plTipo,
		Descripcion: nonEmpty(plDescripcion),
		Imagen:      nonEmpty(plImagenURL),
		IsActive:    platform.Ptr(!plInactive),
		Piso:        changedInt(cmd, "piso", plPiso),
		Edificio:    nonEmpty(plEdificio),
		CodigoQR:    nonEmpty(plCodigoQR),
	}, image)
	if err != nil {
		return err
	}
	return env.print(ux.PlaceDetail{Place: *created})
}

func runPlacesUpdate(ctx context.Context, env *environment, cmd *cobra.Command, args []string) error {
	if err := requireChanges(cmd, "nombre", "descripcion", "lat", "lng", "tipo", "edificio",
		"piso", "codigo-qr", "imagen-url", "image", "active"); err != nil {
		return err
	}
	if err := env.requireLogin(ctx); err != nil {
		return err
	}
	image, err := imageFlag()
	if err != nil {
		return err
	}

	p := resource.NewPlace(env.client, args[0])
	updated, err := p.Update(ctx, platform.UpdatePlaceInput{
		Nombre:      changedString(cmd, "nombre", plNombre),
		Latitud:     changedFloat(cmd, "lat", plLat),
		Longitud:    changedFloat(cmd, "lng", plLng),
		TipoID:      changedString(cmd, "tipo", plTipo),
		Descripcion: changedString(cmd, "descripcion", plDescripcion),
		Imagen:      changedString(cmd, "imagen-url", plImagenURL),
		IsActive:    changedBool(cmd, "active", plActive),
		Piso:        changedInt(cmd, "piso", plPiso),
		Edificio:    changedString(cmd, "edificio", plEdificio),
		CodigoQR:    changedString(cmd, "codigo-qr", plCodigoQR),
	}, image)
	if err != nil {
		return err
	}
	return env.print(ux.PlaceDetail{Place: *updated})
}

func runPlacesToggle(ctx context.Context, env *environment, _ *cobra.Command, args []string) error {
	if err := env.requireLogin(ctx); err != nil {
		return err
	}
	id := args[0]
	if !plActive {
		if err := confirmDestructive(plForce, fmt.Sprintf("Deactivate place %s? It will be hidden from the app.", id)); err != nil {
			return err
		}
	}
	p := resource.NewPlace(env.client, id)
	updated, err := p.Toggle(ctx, plActive)
	if err != nil {
		return err
	}
	return env.print(ux.PlaceDetail{Place: *updated})
}

func runPlacesDelete(ctx context.Context, env *environment, cmd *cobra.Command, args []string) error {
	if err := env.requireLogin(ctx); err != nil {
		return err
	}
	id := args[0]
	if err := confirmDestructive(plForce, fmt.Sprintf("Delete place %s?", id)); err != nil {
		return err
	}
	if err := resource.NewPlace(env.client, id).Delete(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s place %s deleted\n", env.theme.Success.Render("✓"), id)
	return nil
}

func runPlacesStats(ctx context.Context, env *environment, _ *cobra.Command, _ []string) error {
	if err := env.requireLogin(ctx); err != nil {
		return err
	}
	stats := resource.NewPlaceStats(env.client)
	if err := stats.Fetch(ctx); err != nil {
		return err
	}
	data, err := loaded(stats.State())
	if err != nil {
		return err
	}
	return env.print(ux.PlaceStatsView{PlaceStats: data})
}
