package cli

import (
	"strconv"

	"github.com/iudanet/jobcache/internal/models"
)

var (
	orderColumns   = []string{"ID", "TITLE", "STATUS", "CLIENT", "WORKER", "TOTAL"}
	clientColumns  = []string{"ID", "NAME", "EMAIL", "PHONE", "ADDRESS"}
	serviceColumns = []string{"ID", "NAME", "UNIT", "PRICE", "ACTIVE"}
	workerColumns  = []string{"ID", "NAME", "ROLE", "EMAIL", "PHONE", "ACTIVE"}
)

func orderRow(o models.Order) []string {
	return []string{o.ID, o.Title, o.Status, o.ClientID, o.WorkerID, money(o.Total)}
}

func clientRow(c models.Client) []string {
	return []string{c.ID, c.Name, c.Email, c.Phone, c.Address}
}

func serviceRow(s models.Service) []string {
	return []string{s.ID, s.Name, s.Unit, money(s.Price), yesNo(s.Active)}
}

func workerRow(w models.Worker) []string {
	return []string{w.ID, w.Name, w.Role, w.Email, w.Phone, yesNo(w.Active)}
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
