package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/atinyakov/homehub/internal/client"
	"github.com/atinyakov/homehub/internal/models"
)

const helpText = `Available commands:
  dashboard [days]          upcoming bills and subscriptions
  list <resource>           tasks, bills, subscriptions, cars, car-services, kids-events, groceries
  add <resource>            create an item interactively
  delete <resource> <id>    remove an item
  done <task id>            mark a task completed
  pay <bill id>             mark a bill paid today
  check <grocery id>        toggle a grocery item
  note [text]               show or replace the shared note
  import <url>              import kids events from an iCalendar feed
  export <file>             save kids events as an .ics file
  cameras                   camera integration status and devices
  snapshot <id> <file>      save a camera snapshot
  refresh                   forget cached data
  help, exit`

type shell struct {
	api   *client.Client
	in    *client.Prompter
	out   io.Writer
	today func() models.Date
}

func newShell(api *client.Client, in io.Reader, out io.Writer) *shell {
	return &shell{
		api:   api,
		in:    client.NewPrompter(in, out),
		out:   out,
		today: func() models.Date { return models.DateOf(time.Now()) },
	}
}

// run reads commands until exit or end of input.
func (s *shell) run(ctx context.Context) {
	for {
		fmt.Fprint(s.out, "homehub> ")
		line, ok := s.in.Line()
		if !ok {
			fmt.Fprintln(s.out)
			return
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			fmt.Fprintln(s.out, "Bye")
			return
		}
		if err := s.exec(ctx, args); err != nil {
			fmt.Fprintln(s.out, "error:", err)
		}
	}
}

func (s *shell) exec(ctx context.Context, args []string) error {
	switch args[0] {
	case "help":
		fmt.Fprintln(s.out, helpText)
		return nil
	case "dashboard":
		days := 0
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("days must be a number")
			}
			days = n
		}
		return s.dashboard(ctx, days)
	case "list":
		if len(args) < 2 {
			return usage("list <resource>")
		}
		return s.list(ctx, args[1])
	case "add":
		if len(args) < 2 {
			return usage("add <resource>")
		}
		return s.add(ctx, args[1])
	case "delete":
		if len(args) < 3 {
			return usage("delete <resource> <id>")
		}
		id, err := parseID(args[2])
		if err != nil {
			return err
		}
		return s.delete(ctx, args[1], id)
	case "done":
		id, err := idArg(args, "done <task id>")
		if err != nil {
			return err
		}
		t, err := s.api.Tasks.Update(ctx, id, models.TaskPatch{Completed: ptr(true)})
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Task %d completed: %s\n", t.ID, t.Title)
		return nil
	case "pay":
		id, err := idArg(args, "pay <bill id>")
		if err != nil {
			return err
		}
		b, err := s.api.Bills.Update(ctx, id, models.BillPatch{
			Status:   ptr(models.BillPaid),
			LastPaid: models.Some(s.today()),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Bill %d paid: %s %s\n", b.ID, b.Provider, b.Amount)
		return nil
	case "check":
		id, err := idArg(args, "check <grocery id>")
		if err != nil {
			return err
		}
		g, err := s.api.Groceries.Get(ctx, id)
		if err != nil {
			return err
		}
		g, err = s.api.Groceries.Update(ctx, id, models.GroceryPatch{Checked: ptr(!g.Checked)})
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s %s\n", checkbox(g.Checked), g.Name)
		return nil
	case "note":
		if len(args) == 1 {
			n, err := s.api.Note(ctx)
			if err != nil {
				return err
			}
			if n.Content == "" {
				fmt.Fprintln(s.out, "(empty)")
				return nil
			}
			fmt.Fprintln(s.out, n.Content)
			return nil
		}
		_, err := s.api.UpdateNote(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Note saved")
		return nil
	case "import":
		if len(args) < 2 {
			return usage("import <url>")
		}
		res, err := s.api.ImportCalendar(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Imported: %d created, %d updated, %d skipped\n", res.Created, res.Updated, res.Skipped)
		return nil
	case "export":
		if len(args) < 2 {
			return usage("export <file>")
		}
		return s.export(ctx, args[1])
	case "cameras":
		return s.cameras(ctx)
	case "snapshot":
		if len(args) < 3 {
			return usage("snapshot <id> <file>")
		}
		img, err := s.api.Snapshot(ctx, args[1])
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[2], img, 0o644); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		fmt.Fprintf(s.out, "Saved %d bytes to %s\n", len(img), args[2])
		return nil
	case "refresh":
		s.api.Refresh()
		fmt.Fprintln(s.out, "Cache cleared")
		return nil
	default:
		return fmt.Errorf("unknown command %q, type 'help' for a list of commands", args[0])
	}
}

func (s *shell) dashboard(ctx context.Context, days int) error {
	payments, err := s.api.UpcomingPayments(ctx, days)
	if err != nil {
		return err
	}
	if len(payments) == 0 {
		fmt.Fprintln(s.out, "No upcoming payments")
		return nil
	}
	w := s.table("DATE", "TYPE", "NAME", "AMOUNT", "STATUS")
	for _, p := range payments {
		switch p.Type {
		case models.PaymentBill:
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Date(), p.Type, p.Bill.Provider, p.Bill.Amount, p.Bill.Status)
		case models.PaymentSubscription:
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Date(), p.Type, p.Subscription.Name, p.Subscription.Cost, p.Subscription.Cycle)
		}
	}
	return w.Flush()
}

func (s *shell) list(ctx context.Context, resource string) error {
	switch resource {
	case "tasks":
		items, err := s.api.Tasks.List(ctx)
		if err != nil {
			return err
		}
		w := s.table("ID", "DONE", "TITLE", "CATEGORY", "DUE", "PRIORITY")
		for _, t := range items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", t.ID, checkbox(t.Completed), t.Title, t.Category, t.DueDate, t.Priority)
		}
		return w.Flush()
	case "bills":
		items, err := s.api.Bills.List(ctx)
		if err != nil {
			return err
		}
		w := s.table("ID", "PROVIDER", "AMOUNT", "DUE", "STATUS", "LAST PAID")
		for _, b := range items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", b.ID, b.Provider, b.Amount, b.DueDate, b.Status, orDash(b.LastPaid))
		}
		return w.Flush()
	case "subscriptions":
		items, err := s.api.Subscriptions.List(ctx)
		if err != nil {
			return err
		}
		w := s.table("ID", "NAME", "COST", "CYCLE", "RENEWS")
		for _, sub := range items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", sub.ID, sub.Name, sub.Cost, sub.Cycle, sub.RenewalDate)
		}
		return w.Flush()
	case "cars":
		items, err := s.api.Cars.List(ctx)
		if err != nil {
			return err
		}
		w := s.table("ID", "NAME", "MAKE", "MODEL", "YEAR", "PLATE")
		for _, c := range items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, orDash(c.Make), orDash(c.Model), orDash(c.Year), orDash(c.LicensePlate))
		}
		return w.Flush()
	case "car-services":
		items, err := s.api.CarServices.List(ctx)
		if err != nil {
			return err
		}
		w := s.table("ID", "TYPE", "DATE", "KM", "STATUS", "NOTES")
		for _, cs := range items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", cs.ID, cs.Type, orDash(cs.Date), orDash(cs.Km), cs.Status, orDash(cs.Notes))
		}
		return w.Flush()
	case "kids-events":
		items, err := s.api.KidsEvents.List(ctx)
		if err != nil {
			return err
		}
		w := s.table("ID", "DATE", "TIME", "TITLE", "CHILD", "LOCATION")
		for _, e := range items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.EventDate, orDash(e.EventTime), e.Title, orDash(e.ChildName), orDash(e.Location))
		}
		return w.Flush()
	case "groceries":
		items, err := s.api.Groceries.List(ctx)
		if err != nil {
			return err
		}
		w := s.table("ID", "", "NAME")
		for _, g := range items {
			fmt.Fprintf(w, "%d\t%s\t%s\n", g.ID, checkbox(g.Checked), g.Name)
		}
		return w.Flush()
	default:
		return unknownResource(resource)
	}
}

func (s *shell) add(ctx context.Context, resource string) error {
	var (
		id  int64
		err error
	)
	switch resource {
	case "tasks", "task":
		var in models.TaskInput
		in.Title = s.in.Ask("Title")
		var category, priority string
		if category, err = s.in.AskChoice("Category", models.TaskCategories, "Home"); err != nil {
			return err
		}
		if in.DueDate, err = s.in.AskDate("Due date"); err != nil {
			return err
		}
		if priority, err = s.in.AskChoice("Priority", models.TaskPriorities, "Medium"); err != nil {
			return err
		}
		in.Category, in.Priority = models.TaskCategory(category), models.TaskPriority(priority)
		var t models.Task
		t, err = s.api.Tasks.Create(ctx, in)
		id = t.ID
	case "bills", "bill":
		var in models.BillInput
		in.Provider = s.in.Ask("Provider")
		amount, aerr := s.in.AskMoney("Amount")
		if aerr != nil {
			return aerr
		}
		in.Amount = &amount
		if in.DueDate, err = s.in.AskDate("Due date"); err != nil {
			return err
		}
		status, serr := s.in.AskChoice("Status", models.BillStatuses, "Due")
		if serr != nil {
			return serr
		}
		in.Status = models.BillStatus(status)
		in.AttachmentURL = s.in.AskOptional("Attachment URL")
		var b models.Bill
		b, err = s.api.Bills.Create(ctx, in)
		id = b.ID
	case "subscriptions", "subscription":
		var in models.SubscriptionInput
		in.Name = s.in.Ask("Name")
		cost, cerr := s.in.AskMoney("Cost")
		if cerr != nil {
			return cerr
		}
		in.Cost = &cost
		cycle, cyerr := s.in.AskChoice("Cycle", models.BillingCycles, "Monthly")
		if cyerr != nil {
			return cyerr
		}
		in.Cycle = models.BillingCycle(cycle)
		if in.RenewalDate, err = s.in.AskDate("Renewal date"); err != nil {
			return err
		}
		var sub models.Subscription
		sub, err = s.api.Subscriptions.Create(ctx, in)
		id = sub.ID
	case "cars", "car":
		in := models.CarInput{
			Name:         s.in.Ask("Name"),
			Make:         s.in.AskOptional("Make"),
			Model:        s.in.AskOptional("Model"),
			LicensePlate: s.in.AskOptional("License plate"),
		}
		var c models.Car
		c, err = s.api.Cars.Create(ctx, in)
		id = c.ID
	case "car-services", "car-service":
		var in models.CarServiceInput
		typ, terr := s.in.AskChoice("Type", models.ServiceTypes, "Service")
		if terr != nil {
			return terr
		}
		date, derr := s.in.AskDate("Date")
		if derr != nil {
			return derr
		}
		status, serr := s.in.AskChoice("Status", models.ServiceStatuses, "Upcoming")
		if serr != nil {
			return serr
		}
		in.Type, in.Date, in.Status = models.ServiceType(typ), &date, models.ServiceStatus(status)
		in.Notes = s.in.AskOptional("Notes")
		var cs models.CarService
		cs, err = s.api.CarServices.Create(ctx, in)
		id = cs.ID
	case "kids-events", "kids-event":
		var in models.KidsEventInput
		in.Title = s.in.Ask("Title")
		if in.EventDate, err = s.in.AskDate("Date"); err != nil {
			return err
		}
		in.EventTime = s.in.AskOptional("Time (HH:MM)")
		in.ChildName = s.in.AskOptional("Child")
		in.Location = s.in.AskOptional("Location")
		var e models.KidsEvent
		e, err = s.api.KidsEvents.Create(ctx, in)
		id = e.ID
	case "groceries", "grocery":
		var g models.Grocery
		g, err = s.api.Groceries.Create(ctx, models.GroceryInput{Name: s.in.Ask("Name")})
		id = g.ID
	default:
		return unknownResource(resource)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Created %d\n", id)
	return nil
}

func (s *shell) delete(ctx context.Context, resource string, id int64) error {
	var err error
	switch resource {
	case "tasks", "task":
		err = s.api.Tasks.Delete(ctx, id)
	case "bills", "bill":
		err = s.api.Bills.Delete(ctx, id)
	case "subscriptions", "subscription":
		err = s.api.Subscriptions.Delete(ctx, id)
	case "cars", "car":
		err = s.api.Cars.Delete(ctx, id)
	case "car-services", "car-service":
		err = s.api.CarServices.Delete(ctx, id)
	case "kids-events", "kids-event":
		err = s.api.KidsEvents.Delete(ctx, id)
	case "groceries", "grocery":
		err = s.api.Groceries.Delete(ctx, id)
	default:
		return unknownResource(resource)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Deleted")
	return nil
}

func (s *shell) export(ctx context.Context, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := s.api.ExportCalendar(ctx, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Saved %s\n", path)
	return nil
}

func (s *shell) cameras(ctx context.Context) error {
	st, err := s.api.CameraStatus(ctx)
	if err != nil {
		return err
	}
	if !st.Configured {
		fmt.Fprintln(s.out, "Camera integration not configured")
		return nil
	}
	state := "disconnected"
	if st.Connected {
		state = "connected"
	}
	fmt.Fprintf(s.out, "Console %s: %s\n", st.Host, state)

	cams, err := s.api.Cameras(ctx)
	if err != nil {
		return err
	}
	w := s.table("ID", "NAME", "TYPE", "STATE")
	for _, c := range cams {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Type, c.State)
	}
	return w.Flush()
}

func (s *shell) table(headers ...string) *tabwriter.Writer {
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	return w
}

func idArg(args []string, use string) (int64, error) {
	if len(args) < 2 {
		return 0, usage(use)
	}
	return parseID(args[1])
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func usage(u string) error {
	return fmt.Errorf("usage: %s", u)
}

func unknownResource(r string) error {
	return fmt.Errorf("unknown resource %q", r)
}

func checkbox(b bool) string {
	if b {
		return "[x]"
	}
	return "[ ]"
}

func orDash[T any](v *T) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

func ptr[T any](v T) *T { return &v }
