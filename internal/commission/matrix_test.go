package commission_test

import (
	"testing"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/client"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/commission"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/driver"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuildMatrix_SplitEngagementTotals(t *testing.T) {
	driverD := driver.Driver{ID: uuid.New(), FullName: "Driver D", EmploymentType: driver.EmploymentCommission, IsActive: true}
	clientC := client.Client{ID: uuid.New(), CompanyName: "Client C", IsActive: true}

	orders := []commission.MonthlyOrder{
		{
			ID:       uuid.New(),
			DriverID: driverD.ID,
			Month:    8,
			Year:     2025,
			Entries: []commission.ClientEntry{
				entry(clientC.ID, "0.300", period(1, 10, 15)),
				entry(clientC.ID, "0.300", period(20, 28, 10)),
			},
		},
	}

	m := commission.BuildMatrix(8, 2025, orders, []driver.Driver{driverD}, []client.Client{clientC})

	assert.Len(t, m.Rows, 1)
	row := m.Rows[0]

	// Dua entry untuk klien yang sama melebur jadi satu sel.
	cell := row.Cells[clientC.ID.String()]
	assert.Equal(t, int64(25), cell.TotalOrders)
	assert.True(t, cell.TotalAmount.Equal(decimal.RequireFromString("7.500")))
	assert.True(t, cell.CommissionPerOrder.Equal(decimal.RequireFromString("0.300")))

	assert.Equal(t, int64(25), row.TotalOrders)
	assert.True(t, row.TotalAmount.Equal(decimal.RequireFromString("7.500")),
		"got %s", row.TotalAmount)

	assert.Equal(t, int64(25), m.GrandTotals.TotalOrders)
	assert.True(t, m.GrandTotals.TotalAmount.Equal(decimal.RequireFromString("7.500")))
	assert.Equal(t, 1, m.GrandTotals.DriversWithData)
}

func TestBuildMatrix_DriverWithoutRecordGetsZeroRow(t *testing.T) {
	withData := driver.Driver{ID: uuid.New(), FullName: "Ahmad", EmploymentType: driver.EmploymentCommission, IsActive: true}
	withoutData := driver.Driver{ID: uuid.New(), FullName: "Bilal", EmploymentType: driver.EmploymentCommission, IsActive: true}
	clientA := client.Client{ID: uuid.New(), CompanyName: "Alpha Foods", IsActive: true}

	orders := []commission.MonthlyOrder{
		{
			DriverID: withData.ID,
			Entries:  []commission.ClientEntry{entry(clientA.ID, "0.250", period(1, 5, 4))},
		},
	}

	m := commission.BuildMatrix(8, 2025, orders, []driver.Driver{withData, withoutData}, []client.Client{clientA})

	assert.Len(t, m.Rows, 2)
	assert.Equal(t, int64(4), m.Rows[0].TotalOrders)

	empty := m.Rows[1]
	assert.Equal(t, int64(0), empty.TotalOrders)
	_, hasCell := empty.Cells[clientA.ID.String()]
	assert.False(t, hasCell, "driver tanpa record tidak punya sel")

	assert.Equal(t, 1, m.GrandTotals.DriversWithData)
	assert.Equal(t, int64(4), m.GrandTotals.TotalOrders)
}

func TestBuildMatrix_OnlyReferencedClientsGetColumns(t *testing.T) {
	d := driver.Driver{ID: uuid.New(), FullName: "Ahmad", EmploymentType: driver.EmploymentCommission, IsActive: true}
	referenced := client.Client{ID: uuid.New(), CompanyName: "Alpha Foods", IsActive: true}
	idle := client.Client{ID: uuid.New(), CompanyName: "No Orders Yet", IsActive: true}

	orders := []commission.MonthlyOrder{
		{
			DriverID: d.ID,
			Entries:  []commission.ClientEntry{entry(referenced.ID, "0.300", period(1, 5, 10))},
		},
	}

	m := commission.BuildMatrix(8, 2025, orders, []driver.Driver{d}, []client.Client{idle, referenced})

	// Klien aktif tanpa order bulan itu tidak dapat kolom.
	assert.Len(t, m.Columns, 1)
	assert.Equal(t, referenced.ID.String(), m.Columns[0].ClientID)
}

func TestBuildMatrix_ColumnsFollowClientListOrder(t *testing.T) {
	d := driver.Driver{ID: uuid.New(), FullName: "Ahmad", EmploymentType: driver.EmploymentCommission, IsActive: true}
	clients := []client.Client{
		{ID: uuid.New(), CompanyName: "Zeta", IsActive: true},
		{ID: uuid.New(), CompanyName: "Alpha", IsActive: true},
		{ID: uuid.New(), CompanyName: "Mid", IsActive: true},
	}

	orders := []commission.MonthlyOrder{
		{
			DriverID: d.ID,
			Entries: []commission.ClientEntry{
				entry(clients[0].ID, "0.100", period(1, 2, 1)),
				entry(clients[1].ID, "0.100", period(3, 4, 1)),
				entry(clients[2].ID, "0.100", period(5, 6, 1)),
			},
		},
	}

	m := commission.BuildMatrix(8, 2025, orders, []driver.Driver{d}, clients)

	// Urutan kolom mengikuti urutan list klien, bukan abjad.
	assert.Equal(t, "Zeta", m.Columns[0].CompanyName)
	assert.Equal(t, "Alpha", m.Columns[1].CompanyName)
	assert.Equal(t, "Mid", m.Columns[2].CompanyName)
}

func TestBuildMatrix_LegacyEntriesCount(t *testing.T) {
	d := driver.Driver{ID: uuid.New(), FullName: "Ahmad", EmploymentType: driver.EmploymentCommission, IsActive: true}
	c := client.Client{ID: uuid.New(), CompanyName: "Alpha Foods", IsActive: true}

	legacy := int64(20)
	legacyEntry := entry(c.ID, "0.300")
	legacyEntry.LegacyNumOrders = &legacy

	orders := []commission.MonthlyOrder{
		{DriverID: d.ID, Entries: []commission.ClientEntry{legacyEntry}},
	}

	m := commission.BuildMatrix(8, 2025, orders, []driver.Driver{d}, []client.Client{c})

	assert.Equal(t, int64(20), m.Rows[0].Cells[c.ID.String()].TotalOrders)
	assert.True(t, m.Rows[0].TotalAmount.Equal(decimal.RequireFromString("6.000")))
}

func TestBuildMatrix_OrderOutsideEligibleDriversStillCountsInGrandTotals(t *testing.T) {
	eligible := driver.Driver{ID: uuid.New(), FullName: "Ahmad", EmploymentType: driver.EmploymentCommission, IsActive: true}
	outsider := uuid.New()
	c := client.Client{ID: uuid.New(), CompanyName: "Alpha Foods", IsActive: true}

	orders := []commission.MonthlyOrder{
		{DriverID: eligible.ID, Entries: []commission.ClientEntry{entry(c.ID, "0.300", period(1, 5, 10))}},
		{DriverID: outsider, Entries: []commission.ClientEntry{entry(c.ID, "0.200", period(1, 5, 5))}},
	}

	m := commission.BuildMatrix(8, 2025, orders, []driver.Driver{eligible}, []client.Client{c})

	assert.Len(t, m.Rows, 1)
	assert.Equal(t, int64(15), m.GrandTotals.TotalOrders)
	assert.True(t, m.GrandTotals.TotalAmount.Equal(decimal.RequireFromString("4.000")))
	assert.Equal(t, 2, m.GrandTotals.DriversWithData)
}
