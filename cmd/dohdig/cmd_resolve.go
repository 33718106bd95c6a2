package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dohdig/dohdig/dnsjson"
	"github.com/dohdig/dohdig/doh"
	"github.com/dohdig/dohdig/geoip"
)

// newCmdResolve returns the command that performs a single lookup.
func newCmdResolve() *cobra.Command {
	var (
		typeStr   string
		provider  string
		cd        bool
		dnssecOK  bool
		timeout   time.Duration
		jsonOut   bool
		short     bool
		geodbPath string
	)

	cmd := &cobra.Command{
		Use:   "resolve <name>",
		Short: "Resolve a name through a DoH provider",
		Long: `Resolve queries a DNS-over-HTTPS JSON provider for the given name and
prints the answer in a dig-like format. With --geodb, A and AAAA
answers are annotated with their geographic origin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			qtype, err := dnsjson.ParseRecordType(typeStr)
			if err != nil {
				return fmt.Errorf("invalid record type %q", typeStr)
			}

			client, err := doh.NewClient(doh.ClientConfig{
				Provider:  doh.Provider(provider),
				Timeout:   timeout,
				UserAgent: "dohdig/" + version,
			})
			if err != nil {
				return err
			}

			var geo geoip.IPLookup
			if geodbPath != "" {
				reader, err := geoip.NewReader(geodbPath)
				if err != nil {
					return fmt.Errorf("open geoip database: %w", err)
				}
				defer reader.Close()
				geo = reader
			}

			start := time.Now()
			resp, err := client.Resolve(cmd.Context(), name, doh.ResolveOptions{
				Type:             qtype,
				CheckingDisabled: cd,
				DNSSECOK:         dnssecOK,
			})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			out := cmd.OutOrStdout()
			switch {
			case jsonOut:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			case short:
				for _, a := range resp.Answer {
					fmt.Fprintln(out, a.Data)
				}
				return nil
			default:
				printResponse(out, resp, geo, client.Provider(), elapsed)
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&typeStr, "type", "t", "A", "Record type to query (A, AAAA, MX, ..., or TYPE<code>)")
	cmd.Flags().StringVarP(&provider, "provider", "p", "google", "Provider: google, cloudflare, quad9, or a custom endpoint URL")
	cmd.Flags().BoolVar(&cd, "cd", false, "Disable upstream DNSSEC validation")
	cmd.Flags().BoolVar(&dnssecOK, "do", false, "Ask for DNSSEC records in the answer")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Query timeout")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the raw JSON answer document")
	cmd.Flags().BoolVar(&short, "short", false, "Print answer data only, one per line")
	cmd.Flags().StringVar(&geodbPath, "geodb", "", "Path to a GeoLite2/GeoIP2 mmdb file for answer annotation")
	cmd.MarkFlagsMutuallyExclusive("json", "short")
	return cmd
}

// printResponse renders a response in a dig-like format.
func printResponse(w io.Writer, resp *dnsjson.Response, geo geoip.IPLookup, provider doh.Provider, elapsed time.Duration) {
	fmt.Fprintf(w, ";; status: %s, flags: %s; QUERY: %d, ANSWER: %d\n",
		resp.Code(), headerFlags(resp), len(resp.Question), len(resp.Answer))

	if len(resp.Question) > 0 {
		fmt.Fprintf(w, "\n;; QUESTION SECTION:\n")
		for _, q := range resp.Question {
			fmt.Fprintf(w, ";%s\t\tIN\t%s\n", q.Name, q.RecordType())
		}
	}

	if len(resp.Answer) > 0 {
		fmt.Fprintf(w, "\n;; ANSWER SECTION:\n")
		for _, a := range resp.Answer {
			fmt.Fprintf(w, "%s\t%d\tIN\t%s\t%s", a.Name, a.TTL, a.RecordType(), a.Data)
			if loc := geoAnnotation(geo, a); loc != "" {
				fmt.Fprintf(w, "\t; %s", loc)
			}
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintf(w, "\n;; Query time: %d msec\n", elapsed.Milliseconds())
	fmt.Fprintf(w, ";; SERVER: %s\n", provider.Endpoint())
}

func headerFlags(resp *dnsjson.Response) string {
	var flags []string
	if resp.TC {
		flags = append(flags, "tc")
	}
	if resp.RD {
		flags = append(flags, "rd")
	}
	if resp.RA {
		flags = append(flags, "ra")
	}
	if resp.AD {
		flags = append(flags, "ad")
	}
	if resp.CD {
		flags = append(flags, "cd")
	}
	if len(flags) == 0 {
		return "none"
	}
	return strings.Join(flags, " ")
}

// geoAnnotation looks up the origin of an address answer. Non-address
// answers and lookup misses annotate as nothing rather than failing the
// whole command.
func geoAnnotation(geo geoip.IPLookup, a dnsjson.Answer) string {
	if geo == nil {
		return ""
	}
	switch a.RecordType() {
	case dnsjson.TypeA, dnsjson.TypeAAAA:
	default:
		return ""
	}
	ip := net.ParseIP(a.Data)
	if ip == nil {
		return ""
	}
	loc, err := geo.Lookup(ip)
	if err != nil {
		return ""
	}
	if s := loc.String(); s != "unknown" {
		return s
	}
	return ""
}
