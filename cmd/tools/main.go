// Command tools is a read-only inspector for the store: it dumps
// profiles, beta codes or stored messages as a table without taking
// the database write lock.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"mailvault/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "./data/mailvault", "Path to badger DB")
	kind := flag.String("kind", "profiles", "What to list: profiles, codes or messages")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	switch *kind {
	case "profiles":
		err = listProfiles(db, table)
	case "codes":
		err = listCodes(db, table)
	case "messages":
		err = listMessages(db, table)
	default:
		log.Fatalf("unknown kind %q, want profiles, codes or messages", *kind)
	}
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func listProfiles(db *badger.DB, table *tablewriter.Table) error {
	table.SetHeader([]string{"Email", "Username", "Display Name", "Plan", "Beta", "Created"})
	return scanPrefix(db, "profile:", func(value []byte) error {
		var p repositories.Profile
		if err := json.Unmarshal(value, &p); err != nil {
			return nil // skip undecodable rows, keep scanning
		}
		beta := ""
		if p.BetaAccess {
			beta = color.Green.Render("yes")
		}
		table.Append([]string{p.Email, p.Username, p.DisplayName, p.Plan, beta, p.CreatedAt.Format(time.DateTime)})
		return nil
	})
}

func listCodes(db *badger.DB, table *tablewriter.Table) error {
	table.SetHeader([]string{"Code", "Created", "Redeemed By", "Redeemed At"})
	return scanPrefix(db, "betacode:", func(value []byte) error {
		var c repositories.BetaCode
		if err := json.Unmarshal(value, &c); err != nil {
			return nil
		}
		redeemedAt := ""
		if c.RedeemedAt != nil {
			redeemedAt = c.RedeemedAt.Format(time.DateTime)
		}
		redeemedBy := c.RedeemedBy
		if redeemedBy != "" {
			redeemedBy = color.Yellow.Render(redeemedBy)
		}
		table.Append([]string{c.Code, c.CreatedAt.Format(time.DateTime), redeemedBy, redeemedAt})
		return nil
	})
}

func listMessages(db *badger.DB, table *tablewriter.Table) error {
	table.SetHeader([]string{"Owner", "Folder", "From", "Subject", "Spam", "At"})
	return scanPrefix(db, "mail:", func(value []byte) error {
		var m repositories.StoredMessage
		if err := json.Unmarshal(value, &m); err != nil {
			return nil
		}
		spamCol := ""
		if m.IsSpam {
			spamCol = color.Red.Render(fmt.Sprintf("spam(%d)", m.SpamScore))
		}
		subject := truncate(m.Subject, 40)
		table.Append([]string{m.Owner, m.Folder, m.FromEmail, subject, spamCol, m.At.Format(time.DateTime)})
		return nil
	})
}

// truncate shortens s to max runes. Cutting on bytes would split
// multi-byte characters mid-sequence.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

func scanPrefix(db *badger.DB, prefix string, fn func(value []byte) error) error {
	return db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}
		return nil
	})
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	db, err := badger.Open(opts)
	if err != nil && strings.Contains(err.Error(), "Log truncate required") {
		// A dirty shutdown leaves the value log in need of a truncate,
		// which a read-only open refuses to do.
		repairOpts := badger.DefaultOptions(path).
			WithLogger(nil).WithBypassLockGuard(true)
		return badger.Open(repairOpts)
	}
	return db, err
}
