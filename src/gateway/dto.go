package gateway

import (
	"strconv"
	"time"

	"github.com/shillmarket/broker/src/utils/model"
)

// Monetary amounts and sequence numbers are int64 on the wire as
// strings, JSON numbers lose precision past 2^53

type CampaignResponse struct {
	Id             string    `json:"id"`
	RequesterId    string    `json:"requesterId"`
	Brief          string    `json:"brief"`
	RequiredLinks  []string  `json:"requiredLinks"`
	DisclosureText string    `json:"disclosureText"`
	MaxPrice       string    `json:"maxPrice"`
	Quantity       int       `json:"quantity"`
	Filled         int       `json:"filled"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

func NewCampaignResponse(campaign *model.Campaign) *CampaignResponse {
	return &CampaignResponse{
		Id:             campaign.ID,
		RequesterId:    campaign.RequesterId,
		Brief:          campaign.Brief,
		RequiredLinks:  campaign.RequiredLinks,
		DisclosureText: campaign.DisclosureText,
		MaxPrice:       strconv.FormatInt(campaign.MaxPrice, 10),
		Quantity:       campaign.Quantity,
		Filled:         campaign.Filled,
		Status:         string(campaign.Status),
		CreatedAt:      campaign.CreatedAt,
	}
}

type OfferResponse struct {
	Id          string    `json:"id"`
	CampaignId  string    `json:"campaignId"`
	FulfillerId string    `json:"fulfillerId"`
	DraftText   string    `json:"draftText"`
	Price       string    `json:"price"`
	Status      string    `json:"status"`
	Feedback    string    `json:"feedback,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewOfferResponse(offer *model.Offer) *OfferResponse {
	out := &OfferResponse{
		Id:          offer.ID,
		CampaignId:  offer.CampaignId,
		FulfillerId: offer.FulfillerId,
		DraftText:   offer.DraftText,
		Price:       strconv.FormatInt(offer.Price, 10),
		Status:      string(offer.Status),
		CreatedAt:   offer.CreatedAt,
	}
	if offer.Feedback.Valid {
		out.Feedback = offer.Feedback.String
	}
	return out
}

type OrderResponse struct {
	Id           string     `json:"id"`
	CampaignId   string     `json:"campaignId"`
	OfferId      string     `json:"offerId"`
	RequesterId  string     `json:"requesterId"`
	FulfillerId  string     `json:"fulfillerId"`
	SequenceNo   string     `json:"sequenceNo"`
	Amount       string     `json:"amount"`
	FeeBps       int64      `json:"feeBps"`
	EscrowHandle string     `json:"escrowHandle"`
	EscrowPhase  string     `json:"escrowPhase,omitempty"`
	Status       string     `json:"status"`
	PostId       string     `json:"postId,omitempty"`
	PostUrl      string     `json:"postUrl,omitempty"`
	PostedAt     *time.Time `json:"postedAt,omitempty"`
	VerifyAt     *time.Time `json:"verifyAt,omitempty"`
	VerifiedAt   *time.Time `json:"verifiedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func NewOrderResponse(order *model.Order) *OrderResponse {
	out := &OrderResponse{
		Id:           order.ID,
		CampaignId:   order.CampaignId,
		OfferId:      order.OfferId,
		RequesterId:  order.RequesterId,
		FulfillerId:  order.FulfillerId,
		SequenceNo:   strconv.FormatInt(order.SequenceNo, 10),
		Amount:       strconv.FormatInt(order.Amount, 10),
		FeeBps:       order.FeeBps,
		EscrowHandle: order.EscrowHandle,
		EscrowPhase:  string(order.EscrowPhase),
		Status:       string(order.Status),
		PostId:       order.PostId,
		PostUrl:      order.PostUrl,
		CreatedAt:    order.CreatedAt,
	}
	if order.PostedAt.Valid {
		out.PostedAt = &order.PostedAt.Time
	}
	if order.VerifyAt.Valid {
		out.VerifyAt = &order.VerifyAt.Time
	}
	if order.VerifiedAt.Valid {
		out.VerifiedAt = &order.VerifiedAt.Time
	}
	return out
}

func ErrorBody(message string) map[string]string {
	return map[string]string{"error": message}
}
