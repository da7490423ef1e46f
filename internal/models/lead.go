package models

import (
	"time"

	"github.com/google/uuid"
)

// UnknownStageCode labels a lead whose stage id no longer resolves.
const UnknownStageCode = "UNKNOWN"

// LeadStage is static reference data. SeqNo defines the only valid
// progression order; the lowest SeqNo is the initial stage.
type LeadStage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"lead_stage_id"`
	Code      string    `gorm:"size:50;not null;uniqueIndex" json:"lead_stage_code"`
	SeqNo     int       `gorm:"not null;uniqueIndex" json:"lead_stage_seq_no"`
	CreatedAt time.Time `json:"created_at"`
}

func (LeadStage) TableName() string {
	return "lead_stages"
}

type Lead struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"cp_lead_id"`
	CPID            uuid.UUID `gorm:"type:uuid;not null;index:idx_leads_cp_created,priority:1" json:"cp_id"`
	ChurchName      string    `gorm:"size:255;not null" json:"lead_church_name"`
	ChurchAddrLine1 string    `gorm:"size:255" json:"lead_church_addr_line1,omitempty"`
	ChurchAddrLine2 string    `gorm:"size:255" json:"lead_church_addr_line2,omitempty"`
	ChurchCity      string    `gorm:"size:100" json:"lead_church_city,omitempty"`
	ChurchState     string    `gorm:"size:100" json:"lead_church_state,omitempty"`
	ChurchType      string    `gorm:"size:50" json:"lead_church_type,omitempty"`
	ContactName     string    `gorm:"size:200;not null" json:"lead_contact_name"`
	ContactMobile   string    `gorm:"size:20;not null" json:"lead_contact_mobile"`
	Notes           string    `gorm:"type:text" json:"lead_notes,omitempty"`
	StageID         uuid.UUID `gorm:"type:uuid;not null;index" json:"lead_stage_id"`
	CreatedAt       time.Time `gorm:"index:idx_leads_cp_created,priority:2,sort:desc" json:"lead_created_at"`
	CP              CP        `gorm:"foreignKey:CPID" json:"-"`
	Stage           LeadStage `gorm:"foreignKey:StageID" json:"-"`
}

func (Lead) TableName() string {
	return "cp_leads"
}
