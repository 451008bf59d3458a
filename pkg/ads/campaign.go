package ads

import (
	"context"
	"time"
)

const accountScope = "/" + APIVersion + "/accounts/%{account_id}"

// CampaignSchema declares the campaign properties.
var CampaignSchema = RegisterSchema(NewSchema("campaign",
	Plain("id").Immutable(),
	Plain("reasons_not_servable").Immutable(),
	Plain("servable").Immutable(),
	Bool("deleted").Immutable(),
	Time("created_at").Immutable(),
	Time("updated_at").Immutable(),
	Plain("name"),
	Plain("funding_instrument_id"),
	Time("end_time"),
	Time("start_time"),
	Plain("entity_status"),
	Plain("currency"),
	Plain("standard_delivery"),
	Plain("daily_budget_amount_local_micro"),
	Plain("total_budget_amount_local_micro"),
	Plain("duration_in_days"),
	Plain("frequency_cap"),
))

var campaignPaths = endpoints{
	collection: accountScope + "/campaigns",
	resource:   accountScope + "/campaigns/%{id}",
}

// Campaign groups line items under one budget and schedule.
type Campaign struct {
	entity
}

// NewCampaign returns an unsaved campaign owned by account.
func NewCampaign(account *Account) *Campaign {
	return &Campaign{entity: newEntity(CampaignSchema, account, campaignPaths)}
}

// Name returns the campaign name.
func (c *Campaign) Name() string { return c.String("name") }

// SetName sets the campaign name.
func (c *Campaign) SetName(name string) { c.set("name", name) }

// FundingInstrumentID returns the funding instrument paying for the campaign.
func (c *Campaign) FundingInstrumentID() string { return c.String("funding_instrument_id") }

// SetFundingInstrumentID sets the funding instrument.
func (c *Campaign) SetFundingInstrumentID(id string) { c.set("funding_instrument_id", id) }

// EntityStatus returns ACTIVE, DRAFT or PAUSED.
func (c *Campaign) EntityStatus() string { return c.String("entity_status") }

// SetEntityStatus sets the campaign status.
func (c *Campaign) SetEntityStatus(status string) { c.set("entity_status", status) }

// StartTime returns the scheduled start.
func (c *Campaign) StartTime() time.Time { return c.Time("start_time") }

// SetStartTime sets the scheduled start.
func (c *Campaign) SetStartTime(t time.Time) { c.set("start_time", t) }

// EndTime returns the scheduled end.
func (c *Campaign) EndTime() time.Time { return c.Time("end_time") }

// SetEndTime sets the scheduled end.
func (c *Campaign) SetEndTime(t time.Time) { c.set("end_time", t) }

// SetDailyBudget sets the daily budget in micros of the account currency.
func (c *Campaign) SetDailyBudget(micros int64) { c.set("daily_budget_amount_local_micro", micros) }

// SetTotalBudget sets the total budget in micros of the account currency.
func (c *Campaign) SetTotalBudget(micros int64) { c.set("total_budget_amount_local_micro", micros) }

// Deleted reports whether the campaign was deleted.
func (c *Campaign) Deleted() bool { return c.Bool("deleted") }

// Save creates or updates the campaign.
func (c *Campaign) Save(ctx context.Context) error { return c.save(ctx) }

// Delete deletes the campaign.
func (c *Campaign) Delete(ctx context.Context) error { return c.delete(ctx) }

// Stats fetches synchronous analytics for the campaign.
func (c *Campaign) Stats(ctx context.Context, metricGroups []string, opts StatsOptions) ([]any, error) {
	return entityStats(ctx, &c.entity, EntityCampaign, metricGroups, opts)
}

// LineItemSchema declares the line item properties.
var LineItemSchema = RegisterSchema(NewSchema("line_item",
	Plain("id").Immutable(),
	Bool("deleted").Immutable(),
	Time("created_at").Immutable(),
	Time("updated_at").Immutable(),
	Plain("name"),
	Plain("campaign_id"),
	Plain("advertiser_domain"),
	Plain("categories"),
	Plain("charge_by"),
	Plain("objective"),
	Plain("entity_status"),
	Plain("optimization"),
	Plain("bid_unit"),
	Plain("bid_type"),
	Plain("bid_amount_local_micro"),
	Plain("total_budget_amount_local_micro"),
	Plain("product_type"),
	Plain("placements"),
	Plain("primary_web_event_tag"),
	Plain("advertiser_user_id"),
	Plain("tracking_tags"),
	Time("start_time"),
	Time("end_time"),
	Bool("automatically_select_bid"),
))

var lineItemPaths = endpoints{
	collection: accountScope + "/line_items",
	resource:   accountScope + "/line_items/%{id}",
}

// LineItem is a bid within a campaign.
type LineItem struct {
	entity
}

// NewLineItem returns an unsaved line item owned by account.
func NewLineItem(account *Account) *LineItem {
	return &LineItem{entity: newEntity(LineItemSchema, account, lineItemPaths)}
}

// Name returns the line item name.
func (l *LineItem) Name() string { return l.String("name") }

// SetName sets the line item name.
func (l *LineItem) SetName(name string) { l.set("name", name) }

// CampaignID returns the owning campaign id.
func (l *LineItem) CampaignID() string { return l.String("campaign_id") }

// SetCampaignID sets the owning campaign.
func (l *LineItem) SetCampaignID(id string) { l.set("campaign_id", id) }

// Objective returns the line item objective.
func (l *LineItem) Objective() string { return l.String("objective") }

// SetObjective sets the line item objective.
func (l *LineItem) SetObjective(objective string) { l.set("objective", objective) }

// Placements returns the placements the line item serves on.
func (l *LineItem) Placements() []string { return l.Strings("placements") }

// SetPlacements sets the placements.
func (l *LineItem) SetPlacements(placements ...string) { l.set("placements", placements) }

// SetProductType sets the promoted product type.
func (l *LineItem) SetProductType(product string) { l.set("product_type", product) }

// SetBid sets the bid amount in micros and its type.
func (l *LineItem) SetBid(micros int64, bidType string) {
	l.set("bid_amount_local_micro", micros)
	l.set("bid_type", bidType)
}

// SetEntityStatus sets the line item status.
func (l *LineItem) SetEntityStatus(status string) { l.set("entity_status", status) }

// Save creates or updates the line item.
func (l *LineItem) Save(ctx context.Context) error { return l.save(ctx) }

// Delete deletes the line item.
func (l *LineItem) Delete(ctx context.Context) error { return l.delete(ctx) }

// Stats fetches synchronous analytics for the line item.
func (l *LineItem) Stats(ctx context.Context, metricGroups []string, opts StatsOptions) ([]any, error) {
	return entityStats(ctx, &l.entity, EntityLineItem, metricGroups, opts)
}

// TargetingCriteria lists the line item's targeting criteria.
func (l *LineItem) TargetingCriteria(ctx context.Context, params Params) *Cursor[*TargetingCriterion] {
	id, err := l.RequireID()
	if err != nil {
		return failedCursor[*TargetingCriterion](err)
	}

	return l.account.TargetingCriteria(ctx, []string{id}, params)
}

// FundingInstrumentSchema declares the funding instrument properties.
var FundingInstrumentSchema = RegisterSchema(NewSchema("funding_instrument",
	Plain("id").Immutable(),
	Plain("name").Immutable(),
	Bool("cancelled").Immutable(),
	Plain("credit_limit_local_micro").Immutable(),
	Plain("currency").Immutable(),
	Plain("description").Immutable(),
	Plain("funded_amount_local_micro").Immutable(),
	Plain("type").Immutable(),
	Plain("entity_status").Immutable(),
	Bool("able_to_fund").Immutable(),
	Plain("reasons_not_able_to_fund").Immutable(),
	Time("start_time").Immutable(),
	Time("end_time").Immutable(),
	Time("created_at").Immutable(),
	Time("updated_at").Immutable(),
	Bool("deleted").Immutable(),
))

var fundingInstrumentPaths = endpoints{
	collection: accountScope + "/funding_instruments",
	resource:   accountScope + "/funding_instruments/%{id}",
}

// FundingInstrument pays for campaigns. It is read-only through the API.
type FundingInstrument struct {
	entity
}

// NewFundingInstrument returns an empty funding instrument owned by account.
func NewFundingInstrument(account *Account) *FundingInstrument {
	return &FundingInstrument{entity: newEntity(FundingInstrumentSchema, account, fundingInstrumentPaths)}
}

// Name returns the instrument name.
func (f *FundingInstrument) Name() string { return f.String("name") }

// Currency returns the instrument currency code.
func (f *FundingInstrument) Currency() string { return f.String("currency") }

// Cancelled reports whether the instrument was cancelled.
func (f *FundingInstrument) Cancelled() bool { return f.Bool("cancelled") }

// Stats fetches synchronous analytics for the funding instrument.
func (f *FundingInstrument) Stats(ctx context.Context, metricGroups []string, opts StatsOptions) ([]any, error) {
	return entityStats(ctx, &f.entity, EntityFundingInstrument, metricGroups, opts)
}

// PromotableUserSchema declares the promotable user properties.
var PromotableUserSchema = RegisterSchema(NewSchema("promotable_user",
	Plain("id").Immutable(),
	Plain("promotable_user_type").Immutable(),
	Plain("user_id").Immutable(),
	Time("created_at").Immutable(),
	Time("updated_at").Immutable(),
	Bool("deleted").Immutable(),
))

var promotableUserPaths = endpoints{
	collection: accountScope + "/promotable_users",
	resource:   accountScope + "/promotable_users/%{id}",
}

// PromotableUser is a user whose tweets the account may promote.
type PromotableUser struct {
	entity
}

// NewPromotableUser returns an empty promotable user owned by account.
func NewPromotableUser(account *Account) *PromotableUser {
	return &PromotableUser{entity: newEntity(PromotableUserSchema, account, promotableUserPaths)}
}

// UserID returns the promotable user's user id.
func (p *PromotableUser) UserID() string { return p.String("user_id") }

// Type returns FULL or RETWEETS_ONLY.
func (p *PromotableUser) Type() string { return p.String("promotable_user_type") }
