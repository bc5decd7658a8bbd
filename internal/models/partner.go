package models

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/anujsoni3/NovaScore/internal/common/errors"
)

// PartnerType identifies one of the three gig-economy partner categories.
type PartnerType string

const (
	PartnerTypeDriver          PartnerType = "driver"
	PartnerTypeMerchant        PartnerType = "merchant"
	PartnerTypeDeliveryPartner PartnerType = "delivery_partner"
)

// PartnerTypes lists every supported type in display order.
var PartnerTypes = []PartnerType{PartnerTypeDriver, PartnerTypeMerchant, PartnerTypeDeliveryPartner}

// ParsePartnerType accepts the wire value of a partner type, case-insensitively.
func ParsePartnerType(s string) (PartnerType, error) {
	switch PartnerType(strings.ToLower(strings.TrimSpace(s))) {
	case PartnerTypeDriver:
		return PartnerTypeDriver, nil
	case PartnerTypeMerchant:
		return PartnerTypeMerchant, nil
	case PartnerTypeDeliveryPartner:
		return PartnerTypeDeliveryPartner, nil
	}
	return "", apperrors.NewInvalidPartnerTypeError(s)
}

func (p PartnerType) String() string {
	return string(p)
}

// Label is the human readable name shown in tables.
func (p PartnerType) Label() string {
	switch p {
	case PartnerTypeDriver:
		return "Driver"
	case PartnerTypeMerchant:
		return "Merchant"
	case PartnerTypeDeliveryPartner:
		return "Delivery Partner"
	default:
		return string(p)
	}
}

// PartnerData is implemented by the per-type partner records.
type PartnerData interface {
	PartnerType() PartnerType
	Common() *CommonFields
}

// CommonFields are collected for every partner type. Rates are fractions in [0,1].
type CommonFields struct {
	PartnerName         string   `json:"partner_name"`
	MonthlyEarning      float64  `json:"monthly_earning"`
	YearlyEarning       float64  `json:"yearly_earning"`
	CustomerRating      float64  `json:"customer_rating"`
	ActiveDays          int      `json:"active_days"`
	WorkingTenureInGrab float64  `json:"working_tenure_ingrab"`
	ComplaintRate       *float64 `json:"complaint_rate,omitempty"`
	CancellationRate    *float64 `json:"cancellation_rate,omitempty"`
}

type DriverData struct {
	CommonFields
	TotalTrips     int     `json:"total_trips"`
	VehicleAge     float64 `json:"vehicle_age"`
	TripDistance   float64 `json:"trip_distance"`
	PeakHoursRatio float64 `json:"peak_hours_ratio"`
}

func (d *DriverData) PartnerType() PartnerType { return PartnerTypeDriver }
func (d *DriverData) Common() *CommonFields    { return &d.CommonFields }

type MerchantData struct {
	CommonFields
	TotalOrders           int     `json:"total_orders"`
	AvgOrderValue         float64 `json:"avg_ordervalue"`
	PreparationTime       float64 `json:"preparation_time"`
	MenuDiversity         int     `json:"menu_diversity"`
	ConsumerRetentionRate float64 `json:"consumer_retention_rate"`
}

func (m *MerchantData) PartnerType() PartnerType { return PartnerTypeMerchant }
func (m *MerchantData) Common() *CommonFields    { return &m.CommonFields }

type DeliveryPartnerData struct {
	CommonFields
	TotalDeliveries     int     `json:"total_deliveries"`
	AvgDeliveryTime     float64 `json:"avg_delivery_time"`
	DeliverySuccessRate float64 `json:"delivery_success_rate"`
	BatchDeliveryRatio  float64 `json:"batch_delivery_ratio"`
}

func (d *DeliveryPartnerData) PartnerType() PartnerType { return PartnerTypeDeliveryPartner }
func (d *DeliveryPartnerData) Common() *CommonFields    { return &d.CommonFields }

// NewPartnerData returns an empty record of the given type.
func NewPartnerData(pt PartnerType) (PartnerData, error) {
	switch pt {
	case PartnerTypeDriver:
		return &DriverData{}, nil
	case PartnerTypeMerchant:
		return &MerchantData{}, nil
	case PartnerTypeDeliveryPartner:
		return &DeliveryPartnerData{}, nil
	}
	return nil, apperrors.NewInvalidPartnerTypeError(string(pt))
}

// AssessmentRequest is the body of POST /api/assess-partner.
type AssessmentRequest struct {
	Data PartnerData
}

// NewAssessmentRequest pairs a partner record with its type tag.
func NewAssessmentRequest(data PartnerData) *AssessmentRequest {
	return &AssessmentRequest{Data: data}
}

// PartnerType reports the type tag that will be sent.
func (r *AssessmentRequest) PartnerType() PartnerType {
	if r.Data == nil {
		return ""
	}
	return r.Data.PartnerType()
}

type assessmentRequestWire struct {
	PartnerType PartnerType     `json:"partner_type"`
	PartnerData json.RawMessage `json:"partner_data"`
}

func (r AssessmentRequest) MarshalJSON() ([]byte, error) {
	if r.Data == nil {
		return nil, fmt.Errorf("assessment request has no partner data")
	}
	data, err := json.Marshal(r.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(assessmentRequestWire{
		PartnerType: r.Data.PartnerType(),
		PartnerData: data,
	})
}

func (r *AssessmentRequest) UnmarshalJSON(b []byte) error {
	var wire assessmentRequestWire
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	pt, err := ParsePartnerType(string(wire.PartnerType))
	if err != nil {
		return err
	}
	data, _ := NewPartnerData(pt)
	if len(wire.PartnerData) > 0 {
		if err := json.Unmarshal(wire.PartnerData, data); err != nil {
			return fmt.Errorf("decode %s partner_data: %w", pt, err)
		}
	}
	r.Data = data
	return nil
}
