package ads

// Campaign objectives.
const (
	ObjectiveAppEngagements     = "APP_ENGAGEMENTS"
	ObjectiveAppInstalls        = "APP_INSTALLS"
	ObjectiveFollowers          = "FOLLOWERS"
	ObjectiveLeadGeneration     = "LEAD_GENERATION"
	ObjectiveTweetEngagements   = "TWEET_ENGAGEMENTS"
	ObjectiveVideoViews         = "VIDEO_VIEWS"
	ObjectiveWebsiteClicks      = "WEBSITE_CLICKS"
	ObjectiveWebsiteConversions = "WEBSITE_CONVERSIONS"
)

// Promoted product types.
const (
	ProductPromotedAccount = "PROMOTED_ACCOUNT"
	ProductPromotedTweets  = "PROMOTED_TWEETS"
)

// Placements.
const (
	PlacementAllOnTwitter     = "ALL_ON_TWITTER"
	PlacementTwitterSearch    = "TWITTER_SEARCH"
	PlacementTwitterTimeline  = "TWITTER_TIMELINE"
	PlacementPublisherNetwork = "PUBLISHER_NETWORK"
)

// Bid units; charge-by values share the same set.
const (
	BidUnitAppClick     = "APP_CLICK"
	BidUnitAppInstall   = "APP_INSTALL"
	BidUnitEngagement   = "ENGAGEMENT"
	BidUnitFollow       = "FOLLOW"
	BidUnitLead         = "LEAD"
	BidUnitLinkClick    = "LINK_CLICK"
	BidUnitView         = "VIEW"
	BidUnitView3s100Pct = "VIEW_3S_100PCT"
)

// Bid types.
const (
	BidTypeMax    = "MAX"
	BidTypeAuto   = "AUTO"
	BidTypeTarget = "TARGET"
)

// Metric groups.
const (
	MetricGroupEngagement                    = "ENGAGEMENT"
	MetricGroupWebConversion                 = "WEB_CONVERSION"
	MetricGroupMobileConversion              = "MOBILE_CONVERSION"
	MetricGroupMedia                         = "MEDIA"
	MetricGroupVideo                         = "VIDEO"
	MetricGroupBilling                       = "BILLING"
	MetricGroupLifeTimeValueMobileConversion = "LIFE_TIME_VALUE_MOBILE_CONVERSION"
)

// Async job states.
const (
	JobStatusQueued     = "QUEUED"
	JobStatusProcessing = "PROCESSING"
	JobStatusUploading  = "UPLOADING"
	JobStatusSuccess    = "SUCCESS"
	JobStatusFailed     = "FAILED"
)

// Analytics entity types.
const (
	EntityAccount           = "ACCOUNT"
	EntityFundingInstrument = "FUNDING_INSTRUMENT"
	EntityCampaign          = "CAMPAIGN"
	EntityLineItem          = "LINE_ITEM"
	EntityPromotedTweet     = "PROMOTED_TWEET"
	EntityOrganicTweet      = "ORGANIC_TWEET"
	EntityMediaCreative     = "MEDIA_CREATIVE"
)

// Entity statuses.
const (
	EntityStatusActive = "ACTIVE"
	EntityStatusDraft  = "DRAFT"
	EntityStatusPaused = "PAUSED"
)

// Granularity is the bucket size of analytics data.
type Granularity string

// Granularities.
const (
	GranularityHour  Granularity = "HOUR"
	GranularityDay   Granularity = "DAY"
	GranularityTotal Granularity = "TOTAL"
)

// Tailored audience list types.
const (
	TAListEmail       = "EMAIL"
	TAListDeviceID    = "DEVICE_ID"
	TAListTwitterID   = "TWITTER_ID"
	TAListHandle      = "HANDLE"
	TAListPhoneNumber = "PHONE_NUMBER"
)

// Tailored audience change operations.
const (
	TAOperationAdd     = "ADD"
	TAOperationRemove  = "REMOVE"
	TAOperationReplace = "REPLACE"
)

func validTAOperation(op string) bool {
	switch op {
	case TAOperationAdd, TAOperationRemove, TAOperationReplace:
		return true
	default:
		return false
	}
}
