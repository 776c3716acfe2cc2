package dto

// SummaryRequest 图书简介
type SummaryRequest struct {
	Title  string `json:"title" binding:"required,notblank,max=200" example:"Dune"`
	Author string `json:"author" binding:"required,notblank,max=100" example:"Frank Herbert"`
}

// RoadmapRequest 学习路线
type RoadmapRequest struct {
	Goal string `json:"goal" binding:"required,notblank,max=500" example:"成为后端工程师"`
}

// ChatRequest 选书助手对话
type ChatRequest struct {
	Message string `json:"message" binding:"required,notblank,max=2000" example:"有没有适合入门的Go书?"`
}
