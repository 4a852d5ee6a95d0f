package dto

import "project-hub/internal/model"

// ── model → DTO 转换 ──

// ToUserResponse 转换用户（去除密码哈希）
func ToUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToUserBrief 转换用户简要信息
func ToUserBrief(u *model.User) UserBrief {
	return UserBrief{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// ToProjectBrief 转换项目基本信息
func ToProjectBrief(p *model.Project) ProjectBrief {
	return ProjectBrief{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		Deadline:    p.Deadline,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProjectResponse 转换项目详情，成员与任务始终输出数组
func ToProjectResponse(p *model.Project) ProjectResponse {
	resp := ProjectResponse{
		ProjectBrief: ToProjectBrief(p),
		Users:        make([]UserBrief, 0, len(p.Users)),
		Tasks:        make([]TaskBrief, 0, len(p.Tasks)),
	}
	for i := range p.Users {
		resp.Users = append(resp.Users, ToUserBrief(&p.Users[i]))
	}
	for i := range p.Tasks {
		resp.Tasks = append(resp.Tasks, ToTaskBrief(&p.Tasks[i]))
	}
	return resp
}

// ToTaskResponse 转换任务
func ToTaskResponse(t *model.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Status:    t.Status,
		UserID:    t.UserID,
		ProjectID: t.ProjectID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// ToTaskBrief 转换任务简要信息
func ToTaskBrief(t *model.Task) TaskBrief {
	return TaskBrief{ID: t.ID, Title: t.Title, Status: t.Status}
}

// ToActivityResponse 转换动态（关联对象已预加载时一并输出）
func ToActivityResponse(a *model.Activity) ActivityResponse {
	resp := ActivityResponse{
		ID:        a.ID,
		Content:   a.Content,
		UserID:    a.UserID,
		ProjectID: a.ProjectID,
		TaskID:    a.TaskID,
		CreatedAt: a.CreatedAt,
	}
	if a.User != nil {
		u := ToUserBrief(a.User)
		resp.User = &u
	}
	if a.Project != nil {
		p := ToProjectBrief(a.Project)
		resp.Project = &p
	}
	if a.Task != nil {
		t := ToTaskBrief(a.Task)
		resp.Task = &t
	}
	return resp
}
