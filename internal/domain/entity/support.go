package entity

type TicketCategory string

const (
	TicketOrderIssue TicketCategory = "order_issue"
	TicketPlantCare  TicketCategory = "plant_care"
	TicketTechnical  TicketCategory = "technical"
	TicketGeneral    TicketCategory = "general"
	TicketComplaint  TicketCategory = "complaint"
)

func (c TicketCategory) Valid() bool {
	switch c {
	case TicketOrderIssue, TicketPlantCare, TicketTechnical, TicketGeneral, TicketComplaint:
		return true
	}
	return false
}

type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return true
	}
	return false
}
