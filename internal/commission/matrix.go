package commission

import (
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/client"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/driver"

	"github.com/shopspring/decimal"
)

// Matrix is the month-at-a-glance view: one row per eligible driver, one
// column per client with recorded orders that month, aggregates in the cells.
type Matrix struct {
	Month       int            `json:"month"`
	Year        int            `json:"year"`
	Columns     []MatrixColumn `json:"columns"`
	Rows        []MatrixRow    `json:"rows"`
	GrandTotals MatrixTotals   `json:"grand_totals"`
}

type MatrixColumn struct {
	ClientID    string `json:"client_id"`
	CompanyName string `json:"company_name"`
}

// MatrixCell holds one driver×client aggregate. Absence dari map berarti
// sel kosong ("-" di UI).
type MatrixCell struct {
	CommissionPerOrder decimal.Decimal `json:"commission_per_order"`
	TotalOrders        int64           `json:"total_orders"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
}

type MatrixRow struct {
	DriverID    string                `json:"driver_id"`
	DriverName  string                `json:"driver_name"`
	Cells       map[string]MatrixCell `json:"cells"`
	TotalOrders int64                 `json:"total_orders"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
}

type MatrixTotals struct {
	TotalOrders     int64           `json:"total_orders"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DriversWithData int             `json:"drivers_with_data"`
}

// BuildMatrix assembles the commission matrix for one month. Columns are the
// clients referenced by at least one entry that month; a client with zero
// activity gets no column even while globally active. Rows follow the given
// driver order; a driver without a monthly record still gets a zero row so the
// matrix always shows the whole fleet. Pure; safe for concurrent use.
func BuildMatrix(month, year int, orders []MonthlyOrder, drivers []driver.Driver, clients []client.Client) Matrix {
	m := Matrix{
		Month:       month,
		Year:        year,
		Rows:        make([]MatrixRow, 0, len(drivers)),
		GrandTotals: MatrixTotals{TotalAmount: decimal.Zero},
	}

	referenced := make(map[string]bool)
	for _, order := range orders {
		for _, entry := range order.Entries {
			referenced[entry.ClientID.String()] = true
		}
	}

	// Urutan kolom mengikuti urutan list klien, bukan abjad.
	m.Columns = make([]MatrixColumn, 0, len(referenced))
	for _, c := range clients {
		if referenced[c.ID.String()] {
			m.Columns = append(m.Columns, MatrixColumn{
				ClientID:    c.ID.String(),
				CompanyName: c.CompanyName,
			})
		}
	}

	byDriver := make(map[string]MonthlyOrder, len(orders))
	for _, order := range orders {
		byDriver[order.DriverID.String()] = order
	}

	for _, d := range drivers {
		row := MatrixRow{
			DriverID:    d.ID.String(),
			DriverName:  d.FullName,
			Cells:       make(map[string]MatrixCell),
			TotalAmount: decimal.Zero,
		}

		if order, ok := byDriver[d.ID.String()]; ok {
			for _, entry := range order.Entries {
				clientID := entry.ClientID.String()

				cell, exists := row.Cells[clientID]
				if !exists {
					cell = MatrixCell{
						CommissionPerOrder: entry.CommissionPerOrder,
						TotalAmount:        decimal.Zero,
					}
				}
				cell.TotalOrders += entry.OrderTotal()
				cell.TotalAmount = cell.TotalAmount.Add(entry.AmountTotal())
				row.Cells[clientID] = cell

				row.TotalOrders += entry.OrderTotal()
				row.TotalAmount = row.TotalAmount.Add(entry.AmountTotal())
			}
		}

		m.Rows = append(m.Rows, row)
	}

	// Grand totals dihitung dari seluruh order, bukan dari baris: record milik
	// driver di luar daftar eligible tetap masuk total.
	for _, order := range orders {
		for _, entry := range order.Entries {
			m.GrandTotals.TotalOrders += entry.OrderTotal()
			m.GrandTotals.TotalAmount = m.GrandTotals.TotalAmount.Add(entry.AmountTotal())
		}
	}
	m.GrandTotals.DriversWithData = len(orders)
	return m
}
