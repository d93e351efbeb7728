package constants

const (
	// Application-level constants
	AppVersion = "1.0"

	// 上传文件大小上限（超过直接拒绝，不进入解析流程）
	MaxUploadSizeBytes = 10 * 1024 * 1024

	// LLM任务名称，用于config.GetModelForTask查找任务专用模型
	TaskResumeReview    = "resume_review"
	TaskSectionReview   = "section_review"
	TaskSectionRewrite  = "section_rewrite"
	TaskRelevanceRating = "relevance_rating"

	// 支持的简历文件扩展名
	ExtPDF  = ".pdf"
	ExtDocx = ".docx"
	ExtTxt  = ".txt"
)
