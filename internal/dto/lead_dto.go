package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateLeadRequest struct {
	ChurchName      string `json:"lead_church_name"`
	ChurchAddrLine1 string `json:"lead_church_addr_line1"`
	ChurchAddrLine2 string `json:"lead_church_addr_line2"`
	ChurchCity      string `json:"lead_church_city"`
	ChurchState     string `json:"lead_church_state"`
	ChurchType      string `json:"lead_church_type"`
	ContactName     string `json:"lead_contact_name"`
	ContactMobile   string `json:"lead_contact_mobile"`
	Notes           string `json:"lead_notes"`
}

type UpdateLeadStageRequest struct {
	StageCode string `json:"lead_stage_code"`
}

// LeadView is a lead annotated with its human-readable stage code.
type LeadView struct {
	ID              uuid.UUID `json:"cp_lead_id"`
	ChurchName      string    `json:"lead_church_name"`
	ChurchAddrLine1 string    `json:"lead_church_addr_line1,omitempty"`
	ChurchAddrLine2 string    `json:"lead_church_addr_line2,omitempty"`
	ChurchCity      string    `json:"lead_church_city,omitempty"`
	ChurchState     string    `json:"lead_church_state,omitempty"`
	ChurchType      string    `json:"lead_church_type,omitempty"`
	ContactName     string    `json:"lead_contact_name"`
	ContactMobile   string    `json:"lead_contact_mobile"`
	Notes           string    `json:"lead_notes,omitempty"`
	Stage           string    `json:"lead_stage"`
	CreatedAt       time.Time `json:"lead_created_at"`
}

type LeadListResponse struct {
	Message string     `json:"message"`
	Count   int        `json:"count"`
	Leads   []LeadView `json:"leads"`
}

type LeadResponse struct {
	Message string   `json:"message"`
	Lead    LeadView `json:"lead"`
}
