package controllers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/karaoke-backend/internal/billing"
	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
	"github.com/angelmondragon/karaoke-backend/pkg/enums"
)

type roomResponse struct {
	ID           uint             `json:"id"`
	Name         string           `json:"name"`
	Capacity     int              `json:"capacity"`
	PricePerHour decimal.Decimal  `json:"price_per_hour"`
	Status       enums.RoomStatus `json:"status"`
}

func toRoomResponses(rooms []models.Room) []roomResponse {
	out := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, roomResponse{
			ID:           room.ID,
			Name:         room.Name,
			Capacity:     room.Capacity,
			PricePerHour: room.PricePerHour,
			Status:       room.Status,
		})
	}
	return out
}

type serviceResponse struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Unit  string          `json:"unit"`
	Price decimal.Decimal `json:"price"`
}

func toServiceResponses(services []models.Service) []serviceResponse {
	out := make([]serviceResponse, 0, len(services))
	for _, svc := range services {
		out = append(out, serviceResponse{ID: svc.ID, Name: svc.Name, Unit: svc.Unit, Price: svc.Price})
	}
	return out
}

type billResponse struct {
	ID          uint             `json:"id"`
	CustomerID  uint             `json:"customer_id"`
	RoomID      uint             `json:"room_id"`
	StaffID     uint             `json:"staff_id"`
	PolicyID    *uint            `json:"policy_id,omitempty"`
	Status      enums.BillStatus `json:"status"`
	StartTime   time.Time        `json:"start_time"`
	EndTime     *time.Time       `json:"end_time,omitempty"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
}

func toBillResponse(bill *models.Bill) billResponse {
	return billResponse{
		ID:          bill.ID,
		CustomerID:  bill.CustomerID,
		RoomID:      bill.RoomID,
		StaffID:     bill.StaffID,
		PolicyID:    bill.PolicyID,
		Status:      bill.Status,
		StartTime:   bill.StartTime,
		EndTime:     bill.EndTime,
		TotalAmount: bill.TotalAmount,
	}
}

type lineItemResponse struct {
	ID           uint            `json:"id"`
	BillID       uint            `json:"bill_id"`
	ServiceID    uint            `json:"service_id"`
	Quantity     int             `json:"quantity"`
	PriceAtOrder decimal.Decimal `json:"price_at_order"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

func toLineItemResponse(item *models.BillLineItem) lineItemResponse {
	return lineItemResponse{
		ID:           item.ID,
		BillID:       item.BillID,
		ServiceID:    item.ServiceID,
		Quantity:     item.Quantity,
		PriceAtOrder: item.PriceAtOrder,
		LineTotal:    item.LineTotal(),
	}
}

type policyResponse struct {
	ID              uint            `json:"id"`
	Name            string          `json:"name"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

type snapshotResponse struct {
	BillID         uint            `json:"bill_id"`
	ElapsedHours   decimal.Decimal `json:"elapsed_hours"`
	RoomCharge     decimal.Decimal `json:"room_charge"`
	ServiceCharge  decimal.Decimal `json:"service_charge"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	DiscountPolicy *policyResponse `json:"discount_policy,omitempty"`
	Total          decimal.Decimal `json:"total"`
	IsOvertime     bool            `json:"is_overtime"`
}

func toSnapshotResponse(s billing.Snapshot) snapshotResponse {
	out := snapshotResponse{
		BillID:         s.BillID,
		ElapsedHours:   s.ElapsedHours.Round(2),
		RoomCharge:     s.RoomCharge,
		ServiceCharge:  s.ServiceCharge,
		Subtotal:       s.Subtotal,
		DiscountAmount: s.DiscountAmount,
		Total:          s.Total,
		IsOvertime:     s.IsOvertime,
	}
	if s.DiscountPolicy != nil {
		out.DiscountPolicy = &policyResponse{
			ID:              s.DiscountPolicy.ID,
			Name:            s.DiscountPolicy.Name,
			DiscountPercent: s.DiscountPolicy.DiscountPercent,
		}
	}
	return out
}
