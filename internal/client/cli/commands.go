package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/wishsync/internal/client/models"
	"github.com/dmitrijs2005/wishsync/internal/client/services"
)

type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

// Exec runs one REPL command.
func (a *App) Exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.Login(ctx)
	case "register":
		return a.Register(ctx)
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.whoami()

	case "stores":
		return a.listStores(ctx)
	case "savestore":
		return a.saveStore(ctx, args)
	case "togglestore":
		return a.toggleStore(ctx, args)

	case "favorites", "favs":
		return a.listFavorites(ctx)
	case "fav":
		return a.addFavorite(ctx, args)
	case "unfav":
		return a.removeFavorite(ctx, args)

	case "collections":
		return a.listCollections(ctx)
	case "newcollection":
		return a.newCollection(ctx, args)
	case "rmcollection":
		return a.removeCollection(ctx, args)
	case "items":
		return a.listItems(ctx, args)
	case "additem":
		return a.addItem(ctx, args)
	case "rmitem":
		return a.removeItem(ctx, args)

	case "share":
		return a.share(ctx)
	case "public":
		return a.setPublic(ctx, true)
	case "private":
		return a.setPublic(ctx, false)

	case "history":
		return a.history(ctx, args)
	case "search":
		return a.search(ctx, args)

	case "prefs":
		return a.prefs(ctx)
	case "setlang":
		return a.setLanguage(ctx, args)
	case "setcurrency":
		return a.setCurrency(ctx, args)
	}
	return errUnknownCommand
}

func (a *App) whoami() error {
	cur := a.current()
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "guest")
		return nil
	}
	fmt.Fprintf(a.out, "%s (session expires %s)\n", cur.UserID, cur.ExpiresAt.Format(time.RFC3339))
	return nil
}

// ---- saved stores ----

func (a *App) listStores(ctx context.Context) error {
	stores := a.svc.SavedStores.List(ctx)
	if len(stores) == 0 {
		fmt.Fprintln(a.out, "No saved stores")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSAVED")
	for _, s := range stores {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.Name, s.SavedAt.Format(time.DateTime))
	}
	return tw.Flush()
}

func storeFromArgs(args []string, usage string) (models.Store, error) {
	pos, fields := splitArgs(args)
	if len(pos) == 0 {
		return models.Store{}, usageError(usage)
	}
	name := fields["name"]
	if name == "" && len(pos) > 1 {
		name = strings.Join(pos[1:], " ")
	}
	return models.Store{ID: pos[0], Name: name, Logo: fields["logo"]}, nil
}

func (a *App) saveStore(ctx context.Context, args []string) error {
	st, err := storeFromArgs(args, "savestore <store-id> [name] [logo=<url>]")
	if err != nil {
		return err
	}
	if err := a.svc.SavedStores.Add(ctx, st); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Saved", st.ID)
	return nil
}

func (a *App) toggleStore(ctx context.Context, args []string) error {
	st, err := storeFromArgs(args, "togglestore <store-id> [name] [logo=<url>]")
	if err != nil {
		return err
	}
	saved, err := a.svc.SavedStores.Toggle(ctx, st)
	if err != nil {
		return err
	}
	if saved {
		fmt.Fprintln(a.out, "Saved", st.ID)
	} else {
		fmt.Fprintln(a.out, "Removed", st.ID)
	}
	return nil
}

// ---- favorites ----

func (a *App) listFavorites(ctx context.Context) error {
	favs := a.svc.Favorites.List(ctx)
	if len(favs) == 0 {
		fmt.Fprintln(a.out, "No favorites")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBRAND\tPRICE")
	for _, f := range favs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.ID, f.Name, f.Brand, formatPrice(f.Price, f.Currency))
	}
	return tw.Flush()
}

func (a *App) addFavorite(ctx context.Context, args []string) error {
	const usage = "fav <product-id> [name=..] [brand=..] [image=..] [price=..] [currency=..]"
	pos, fields := splitArgs(args)
	if len(pos) != 1 {
		return usageError(usage)
	}
	p, err := productFromFields(pos[0], fields)
	if err != nil {
		return err
	}
	if err := a.svc.Favorites.Add(ctx, p); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Added", p.ID, "to favorites")
	return nil
}

func (a *App) removeFavorite(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("unfav <product-id>")
	}
	if err := a.svc.Favorites.Remove(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Removed", args[0], "from favorites")
	return nil
}

// ---- collections ----

func (a *App) listCollections(ctx context.Context) error {
	cols := a.svc.Collections.List(ctx)
	if len(cols) == 0 {
		fmt.Fprintln(a.out, "No collections")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tITEMS\tVISIBILITY")
	for _, c := range cols {
		vis := "private"
		if c.IsPublic {
			vis = "public"
		}
		name := c.Name
		if c.Icon != "" {
			name = c.Icon + " " + name
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", c.ID, name, c.ItemCount, vis)
	}
	return tw.Flush()
}

func (a *App) newCollection(ctx context.Context, args []string) error {
	pos, fields := splitArgs(args)
	if len(pos) == 0 {
		return usageError("newcollection <name> [icon=..] [public=true]")
	}
	desc, err := getMultiline(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}
	in := models.CollectionInput{
		Name:        strings.Join(pos, " "),
		Icon:        fields["icon"],
		Description: desc,
		IsPublic:    fields["public"] == "true",
	}
	c, err := a.svc.Collections.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created collection %q (%s)\n", c.Name, c.ID)
	return nil
}

func (a *App) removeCollection(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("rmcollection <collection-id>")
	}
	if err := a.svc.Collections.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted collection", args[0])
	return nil
}

func (a *App) listItems(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("items <collection-id>")
	}
	items := a.svc.Collections.Items(ctx, args[0])
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Collection is empty")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tNAME\tPRICE\tNOTE")
	for _, it := range items {
		var name, price string
		if it.Product != nil {
			name = it.Product.Name
			price = formatPrice(it.Product.Price, it.Product.Currency)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.ProductID, name, price, strings.ReplaceAll(it.Note, "\n", " "))
	}
	return tw.Flush()
}

func (a *App) addItem(ctx context.Context, args []string) error {
	const usage = "additem <collection-id> <product-id> [name=..] [brand=..] [price=..] [currency=..]"
	pos, fields := splitArgs(args)
	if len(pos) != 2 {
		return usageError(usage)
	}
	p, err := productFromFields(pos[1], fields)
	if err != nil {
		return err
	}
	note, err := getMultiline(a.reader, "Note (optional)", a.out)
	if err != nil {
		return err
	}
	if err := a.svc.Collections.AddItem(ctx, pos[0], p, note); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s to %s\n", p.ID, pos[0])
	return nil
}

func (a *App) removeItem(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("rmitem <collection-id> <product-id>")
	}
	if err := a.svc.Collections.RemoveItem(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed %s from %s\n", args[1], args[0])
	return nil
}

// ---- wishlist privacy ----

func (a *App) share(ctx context.Context) error {
	s, err := a.svc.Wishlist.GenerateShareLink(ctx)
	if err != nil {
		return needsLogin(err)
	}
	a.printSettings(s)
	return nil
}

func (a *App) setPublic(ctx context.Context, public bool) error {
	s, err := a.svc.Wishlist.SetPublic(ctx, public)
	if err != nil {
		return needsLogin(err)
	}
	a.printSettings(s)
	return nil
}

func (a *App) printSettings(s models.WishlistSettings) {
	if !s.IsPublic {
		fmt.Fprintln(a.out, "Wishlist is private")
		return
	}
	if url := s.VisibleShareURL(); url != "" {
		fmt.Fprintln(a.out, "Wishlist is public:", url)
		return
	}
	fmt.Fprintln(a.out, "Wishlist is public")
}

// ---- search history ----

func (a *App) history(ctx context.Context, args []string) error {
	if len(args) == 1 && args[0] == "clear" {
		a.svc.SearchHistory.Clear(ctx)
		fmt.Fprintln(a.out, "Search history cleared")
		return nil
	}
	if len(args) > 1 && args[0] == "rm" {
		a.svc.SearchHistory.Remove(ctx, strings.Join(args[1:], " "))
		return nil
	}
	if len(args) != 0 {
		return usageError("history [clear | rm <query>]")
	}
	for i, e := range a.svc.SearchHistory.List(ctx) {
		fmt.Fprintf(a.out, "%2d. %s\n", i+1, e.Query)
	}
	return nil
}

func (a *App) search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("search <query>")
	}
	q := strings.Join(args, " ")
	a.svc.SearchHistory.Add(ctx, q)
	fmt.Fprintf(a.out, "Searching for %q\n", q)
	return nil
}

// ---- preferences ----

func (a *App) prefs(ctx context.Context) error {
	p := a.svc.Preferences.Get(ctx)
	fmt.Fprintf(a.out, "language: %s\ncurrency: %s\n", p.Language, p.Currency)
	return nil
}

func (a *App) setLanguage(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("setlang <language-tag>")
	}
	return a.svc.Preferences.SetLanguage(ctx, args[0])
}

func (a *App) setCurrency(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("setcurrency <ISO 4217 code>")
	}
	return a.svc.Preferences.SetCurrency(ctx, strings.ToUpper(args[0]))
}

// ---- helpers ----

// splitArgs separates positional arguments from key=value fields.
func splitArgs(args []string) ([]string, map[string]string) {
	pos := make([]string, 0, len(args))
	fields := make(map[string]string)
	for _, arg := range args {
		if k, v, ok := strings.Cut(arg, "="); ok && k != "" {
			fields[strings.ToLower(k)] = v
			continue
		}
		pos = append(pos, arg)
	}
	return pos, fields
}

func productFromFields(id string, fields map[string]string) (models.ProductSummary, error) {
	p := models.ProductSummary{
		ID:       id,
		Name:     fields["name"],
		Brand:    fields["brand"],
		Image:    fields["image"],
		Currency: strings.ToUpper(fields["currency"]),
	}
	if raw, ok := fields["price"]; ok {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return p, fmt.Errorf("invalid price %q: %w", raw, err)
		}
		p.Price = price
	}
	return p, nil
}

func formatPrice(price decimal.Decimal, currency string) string {
	if price.IsZero() {
		return ""
	}
	return strings.TrimSpace(price.StringFixed(2) + " " + currency)
}

func needsLogin(err error) error {
	if errors.Is(err, services.ErrAuthRequired) {
		return fmt.Errorf("%w: use 'login' first", err)
	}
	return err
}
