package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"voyage/pkg/authtoken"
	"voyage/pkg/config"
)

var flowFlags struct {
	baseURL     string
	customer    string
	destination int
	adults      int
	children    int
	method      string
}

var tokenFlags struct {
	customer string
	email    string
	name     string
	ttl      time.Duration
}

var rootCmd = &cobra.Command{
	Use:          "devflow",
	Short:        "Drive a local API through the booking wizard",
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Book the first available tour end to end and print the booking reference",
	RunE:  runFlow,
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a customer session token signed with AUTH_TOKEN_SECRET",
	RunE:  runToken,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(tokenCmd)

	runCmd.Flags().StringVar(&flowFlags.baseURL, "base-url", "", "API base url (default: derived from HTTP_ADDR)")
	runCmd.Flags().StringVar(&flowFlags.customer, "customer", "devflow", "Customer id the session is created for")
	runCmd.Flags().IntVar(&flowFlags.destination, "destination", 3, "Destination id")
	runCmd.Flags().IntVar(&flowFlags.adults, "adults", 2, "Adult travelers")
	runCmd.Flags().IntVar(&flowFlags.children, "children", 0, "Child travelers")
	runCmd.Flags().StringVar(&flowFlags.method, "method", "card", "Payment method: card, bank-transfer or installments")

	tokenCmd.Flags().StringVar(&tokenFlags.customer, "customer", "", "Customer id (required)")
	tokenCmd.Flags().StringVar(&tokenFlags.email, "email", "", "Customer email")
	tokenCmd.Flags().StringVar(&tokenFlags.name, "name", "", "Customer display name")
	tokenCmd.Flags().DurationVar(&tokenFlags.ttl, "ttl", 12*time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("customer")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "devflow: %v\n", err)
		os.Exit(1)
	}
}

func runToken(_ *cobra.Command, _ []string) error {
	cfg := config.Load()
	tok, err := authtoken.Issue(tokenFlags.customer, tokenFlags.email, tokenFlags.name, cfg.Auth.Audience, cfg.Auth.TokenSecret, tokenFlags.ttl, time.Now())
	if err != nil {
		return err
	}
	fmt.Println(tok)
	return nil
}

type flowClient struct {
	http    *http.Client
	base    string
	headers map[string]string
}

func (c flowClient) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: status=%d body=%s", method, path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

type sessionResponse struct {
	Session struct {
		ID       string `json:"id"`
		Step     int    `json:"step"`
		StepName string `json:"stepName"`
		Booking  struct {
			TotalPrice       string `json:"totalPrice"`
			BookingReference string `json:"bookingReference"`
		} `json:"booking"`
	} `json:"session"`
}

func runFlow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.Load()

	base := flowFlags.baseURL
	if base == "" {
		base = defaultBaseURL(cfg.HTTPAddr)
	}
	c := flowClient{
		http:    &http.Client{Timeout: 30 * time.Second},
		base:    strings.TrimRight(base, "/") + "/v1/bookings/wizard",
		headers: map[string]string{},
	}
	// Prefer a real token; the X-Customer-ID fallback only works outside prod.
	if tok, err := authtoken.Issue(flowFlags.customer, "", "", cfg.Auth.Audience, cfg.Auth.TokenSecret, time.Hour, time.Now()); err == nil {
		c.headers["Authorization"] = "Bearer " + tok
	} else {
		c.headers["X-Customer-ID"] = flowFlags.customer
	}

	var s sessionResponse
	if err := c.call(ctx, http.MethodPost, "", nil, &s); err != nil {
		fmt.Fprintf(os.Stderr, "tip: is the API running? base_url=%s\n", base)
		return err
	}
	p := "/" + s.Session.ID
	fmt.Printf("session=%s\n", s.Session.ID)

	err := c.call(ctx, http.MethodPost, p+"/destination", map[string]any{
		"destinationId": flowFlags.destination,
		"adults":        flowFlags.adults,
		"children":      flowFlags.children,
	}, &s)
	if err != nil {
		return err
	}

	var durations struct {
		Options []struct {
			Title  string `json:"title"`
			TourID int    `json:"tourId"`
		} `json:"options"`
	}
	if err := c.call(ctx, http.MethodGet, p+"/durations", nil, &durations); err != nil {
		return err
	}
	if len(durations.Options) == 0 {
		return fmt.Errorf("destination %d has no active tours", flowFlags.destination)
	}
	fmt.Printf("duration=%s\n", durations.Options[0].Title)
	if err := c.call(ctx, http.MethodPost, p+"/duration", map[string]any{"tourId": durations.Options[0].TourID}, &s); err != nil {
		return err
	}

	date, err := firstSelectableDate(ctx, c, p)
	if err != nil {
		return err
	}
	var picked struct {
		Offers []struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Price string `json:"price"`
		} `json:"offers"`
		Message string `json:"message"`
	}
	if err := c.call(ctx, http.MethodPost, p+"/date", map[string]any{"date": date}, &picked); err != nil {
		return err
	}
	if len(picked.Offers) == 0 {
		return fmt.Errorf("no offers on %s: %s", date, picked.Message)
	}
	o := picked.Offers[0]
	fmt.Printf("date=%s offer=%s %q price=%s\n", date, o.ID, o.Name, o.Price)

	steps := []struct {
		path string
		body any
	}{
		{"/offer", map[string]any{"offerId": o.ID}},
		{"/review/continue", nil},
		{"/preferences", map[string]any{"accommodation": "standard", "mealPlan": "breakfast", "roomType": "double"}},
		{"/documents/confirm", nil},
		{"/payment", map[string]any{
			"method": flowFlags.method,
			"card":   map[string]string{"number": "4242424242424242", "name": "Dev Flow", "expiry": "12/30", "cvv": "123"},
		}},
	}
	for _, st := range steps {
		if err := c.call(ctx, http.MethodPost, p+st.path, st.body, &s); err != nil {
			return err
		}
		fmt.Printf("step=%d %s\n", s.Session.Step, s.Session.StepName)
	}

	fmt.Printf("\nBooking complete.\n")
	fmt.Printf("reference=%s total=%s\n", s.Session.Booking.BookingReference, s.Session.Booking.TotalPrice)
	return nil
}

// firstSelectableDate walks forward month by month until the calendar offers a date.
func firstSelectableDate(ctx context.Context, c flowClient, p string) (string, error) {
	month := time.Now()
	for i := 0; i < 8; i++ {
		var cal struct {
			Cells []struct {
				Date       string `json:"date"`
				Selectable bool   `json:"selectable"`
			} `json:"cells"`
		}
		if err := c.call(ctx, http.MethodGet, p+"/calendar?month="+month.Format("2006-01"), nil, &cal); err != nil {
			return "", err
		}
		for _, cell := range cal.Cells {
			if cell.Selectable {
				return cell.Date, nil
			}
		}
		month = month.AddDate(0, 1, -month.Day()+1)
	}
	return "", fmt.Errorf("no selectable date found")
}

func defaultBaseURL(httpAddr string) string {
	// httpAddr is typically ":8080" or "0.0.0.0:8080".
	addr := strings.TrimSpace(httpAddr)
	if addr == "" {
		addr = ":8080"
	}
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	if strings.HasPrefix(addr, "0.0.0.0:") {
		return "http://localhost" + strings.TrimPrefix(addr, "0.0.0.0")
	}
	return "http://" + addr
}
