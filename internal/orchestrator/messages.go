package orchestrator

// User-facing replies, one per outcome kind.
const (
	msgHelp             = "Send me a link to a YouTube or Instagram video."
	msgMetadataFailed   = "Could not look up that video. Please try again."
	msgTooLong          = "Sorry, that video is too long (over 5 minutes)."
	msgNoRenditions     = "No downloadable renditions are available for that video."
	msgSelectionExpired = "That selection has expired. Please send the link again."
	msgRenditionMissing = "That resolution is not available for this video."
	msgExtractionFailed = "Could not extract audio from that video. Please try again later."
	msgDownloadFailed   = "The download failed. Please try again later."
	msgTimedOut         = "The download took too long and was cancelled."
	msgDeliveryFailed   = "The file was prepared but could not be delivered. Please try again."
	msgInternalError    = "Something went wrong. Please try again later."

	msgPreparingAudio = "Please wait, preparing the audio..."
	msgPreparingVideo = "Please wait, preparing the video..."
	msgChooseAction   = "Choose an option:"
	msgChooseHeight   = "Choose a resolution:"
)
