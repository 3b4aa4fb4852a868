package commission

import (
	"time"

	commissionerrors "github.com/lolotam/EMMAR-DELIVERY-sub000/internal/commission/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type PeriodRequest struct {
	DateFrom  string `json:"date_from" binding:"required"`
	DateTo    string `json:"date_to" binding:"required"`
	NumOrders int64  `json:"num_orders"`
}

// EntryRequest menerima dua format sekaligus: format baru dengan periods[],
// dan format datar lama (num_orders + date_from/date_to di level entry) yang
// masih dikirim klien lama. Format lama dinormalisasi jadi satu period.
type EntryRequest struct {
	ClientID           string          `json:"client_id" binding:"required,uuid"`
	CommissionPerOrder decimal.Decimal `json:"commission_per_order"`
	Notes              *string         `json:"notes"`
	Periods            []PeriodRequest `json:"periods"`

	// Legacy flat fields.
	NumOrders *int64  `json:"num_orders"`
	DateFrom  *string `json:"date_from"`
	DateTo    *string `json:"date_to"`
}

type SaveMonthlyOrderRequest struct {
	DriverID string         `json:"driver_id" binding:"required,uuid"`
	Month    int            `json:"month" binding:"required"`
	Year     int            `json:"year" binding:"required"`
	Entries  []EntryRequest `json:"entries"`
}

// normalize converts a request entry to its storage form. Legacy flat entries
// become a single period spanning the flat date range; a flat entry without
// dates keeps only the legacy column so old records round-trip unchanged.
func (r EntryRequest) normalize() (ClientEntry, error) {
	clientID, err := uuid.Parse(r.ClientID)
	if err != nil {
		return ClientEntry{}, commissionerrors.ErrClientNotFound
	}

	entry := ClientEntry{
		ClientID:           clientID,
		CommissionPerOrder: r.CommissionPerOrder,
		Notes:              r.Notes,
	}

	if len(r.Periods) > 0 {
		for _, p := range r.Periods {
			period, err := p.normalize()
			if err != nil {
				return ClientEntry{}, err
			}
			entry.Periods = append(entry.Periods, period)
		}
		return entry, nil
	}

	if r.NumOrders == nil {
		return ClientEntry{}, commissionerrors.ErrNoPeriods
	}

	if r.DateFrom != nil && r.DateTo != nil {
		period, err := PeriodRequest{DateFrom: *r.DateFrom, DateTo: *r.DateTo, NumOrders: *r.NumOrders}.normalize()
		if err != nil {
			return ClientEntry{}, err
		}
		entry.Periods = []CommissionPeriod{period}
		return entry, nil
	}

	entry.LegacyNumOrders = r.NumOrders
	return entry, nil
}

func (r PeriodRequest) normalize() (CommissionPeriod, error) {
	from, err := time.Parse(dateLayout, r.DateFrom)
	if err != nil {
		return CommissionPeriod{}, commissionerrors.ErrInvalidDateFormat
	}
	to, err := time.Parse(dateLayout, r.DateTo)
	if err != nil {
		return CommissionPeriod{}, commissionerrors.ErrInvalidDateFormat
	}
	return CommissionPeriod{DateFrom: from, DateTo: to, OrderCount: r.NumOrders}, nil
}

type PeriodResponse struct {
	ID        string `json:"id"`
	DateFrom  string `json:"date_from"`
	DateTo    string `json:"date_to"`
	NumOrders int64  `json:"num_orders"`
}

type EntryResponse struct {
	ID                 string           `json:"id"`
	ClientID           string           `json:"client_id"`
	CommissionPerOrder decimal.Decimal  `json:"commission_per_order"`
	TotalOrders        int64            `json:"total_orders"`
	TotalAmount        decimal.Decimal  `json:"total_amount"`
	Notes              *string          `json:"notes,omitempty"`
	Periods            []PeriodResponse `json:"periods"`
}

type MonthlyOrderResponse struct {
	ID          string          `json:"id"`
	DriverID    string          `json:"driver_id"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	TotalOrders int64           `json:"total_orders"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Entries     []EntryResponse `json:"entries"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toMonthlyOrderResponse(order MonthlyOrder) MonthlyOrderResponse {
	resp := MonthlyOrderResponse{
		ID:          order.ID.String(),
		DriverID:    order.DriverID.String(),
		Month:       order.Month,
		Year:        order.Year,
		TotalOrders: order.TotalOrders,
		TotalAmount: order.TotalAmount,
		UpdatedAt:   order.UpdatedAt,
	}
	for _, entry := range order.Entries {
		entryResp := EntryResponse{
			ID:                 entry.ID.String(),
			ClientID:           entry.ClientID.String(),
			CommissionPerOrder: entry.CommissionPerOrder,
			TotalOrders:        entry.OrderTotal(),
			TotalAmount:        entry.AmountTotal(),
			Notes:              entry.Notes,
		}
		for _, p := range entry.Periods {
			entryResp.Periods = append(entryResp.Periods, PeriodResponse{
				ID:        p.ID.String(),
				DateFrom:  p.DateFrom.Format(dateLayout),
				DateTo:    p.DateTo.Format(dateLayout),
				NumOrders: p.OrderCount,
			})
		}
		resp.Entries = append(resp.Entries, entryResp)
	}
	return resp
}
