package handlers

import (
	"time"

	"github.com/spec-kit/estate-agency/internal/api/dto"
	"github.com/spec-kit/estate-agency/internal/config"
	"github.com/spec-kit/estate-agency/internal/domain"
	"github.com/spec-kit/estate-agency/internal/service"
)

// money renders an amount with the stored scale.
func money(d interface{ StringFixed(int32) string }) string {
	return d.StringFixed(domain.MoneyPlaces)
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

func optionalUser(user *domain.User) *dto.UserResponse {
	if user == nil {
		return nil
	}
	resp := userResponse(user)
	return &resp
}

func clientResponse(client *domain.Client) *dto.ClientResponse {
	if client == nil {
		return nil
	}
	types := client.PreferredPropertyTypes
	if types == nil {
		types = []string{}
	}
	return &dto.ClientResponse{
		ID:                     client.ID,
		User:                   optionalUser(client.User),
		Preferences:            client.PreferencesList(),
		BudgetRange:            client.BudgetRange,
		PreferredPropertyTypes: types,
		PhoneNumber:            client.PhoneNumber,
		Address:                client.Address,
		BirthDate:              client.BirthDate,
	}
}

func employeeResponse(employee *domain.Employee) *dto.EmployeeResponse {
	if employee == nil {
		return nil
	}
	resp := &dto.EmployeeResponse{
		ID:              employee.ID,
		User:            optionalUser(employee.User),
		Position:        employee.Position,
		Department:      employee.Department,
		Specialization:  employee.Specialization,
		HireDate:        employee.HireDate,
		ExperienceYears: employee.ExperienceYears(time.Now()),
		PhoneNumber:     employee.PhoneNumber,
	}
	if employee.PerformanceRating != nil {
		rating := employee.PerformanceRating.StringFixed(1)
		resp.PerformanceRating = &rating
	}
	return resp
}

func serviceResponse(svc *domain.PropertyService) *dto.ServiceResponse {
	if svc == nil {
		return nil
	}
	resp := &dto.ServiceResponse{
		ID:            svc.ID,
		Title:         svc.Title,
		ServiceTypeID: svc.ServiceTypeID,
		ServiceFee:    money(svc.ServiceFee),
	}
	if svc.ServiceType != nil {
		resp.ServiceTypeTitle = svc.ServiceType.Title
	}
	return resp
}

func propertyResponse(p *domain.Property, media config.MediaConfig) dto.PropertyResponse {
	return dto.PropertyResponse{
		ID:             p.ID,
		Price:          money(p.Price),
		Area:           money(p.Area),
		Details:        p.Details,
		Location:       p.Location,
		PhotoURL:       p.PhotoURL(media.URLPrefix, media.DefaultPhotoName),
		PropertyTypeID: p.PropertyTypeID,
		Service:        serviceResponse(p.Service),
		Sold:           p.Sold,
		CreatedAt:      p.CreatedAt,
	}
}

func optionalProperty(p *domain.Property, media config.MediaConfig) *dto.PropertyResponse {
	if p == nil {
		return nil
	}
	resp := propertyResponse(p, media)
	return &resp
}

func propertyList(items []domain.Property, media config.MediaConfig) []dto.PropertyResponse {
	out := make([]dto.PropertyResponse, 0, len(items))
	for i := range items {
		out = append(out, propertyResponse(&items[i], media))
	}
	return out
}

func inquiryResponse(inq *domain.PropertyInquiry, media config.MediaConfig) dto.InquiryResponse {
	return dto.InquiryResponse{
		ID:          inq.ID,
		PropertyID:  inq.PropertyID,
		BuyerID:     inq.BuyerID,
		AgentID:     inq.AgentID,
		InquiryText: inq.InquiryText,
		State:       string(inq.State),
		CreatedAt:   inq.CreatedAt,
		Property:    optionalProperty(inq.Property, media),
		Buyer:       clientResponse(inq.Buyer),
		Agent:       employeeResponse(inq.Agent),
	}
}

func inquiryList(items []domain.PropertyInquiry, media config.MediaConfig) []dto.InquiryResponse {
	out := make([]dto.InquiryResponse, 0, len(items))
	for i := range items {
		out = append(out, inquiryResponse(&items[i], media))
	}
	return out
}

func transactionResponse(txn *domain.Transaction, media config.MediaConfig) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:              txn.ID,
		PropertyID:      txn.PropertyID,
		BuyerID:         txn.BuyerID,
		AgentID:         txn.AgentID,
		ContractDate:    txn.ContractDate,
		TransactionDate: txn.TransactionDate,
		TotalAmount:     money(txn.TotalAmount),
		Property:        optionalProperty(txn.Property, media),
		Buyer:           clientResponse(txn.Buyer),
		Agent:           employeeResponse(txn.Agent),
	}
}

func transactionList(items []domain.Transaction, media config.MediaConfig) []dto.TransactionResponse {
	out := make([]dto.TransactionResponse, 0, len(items))
	for i := range items {
		out = append(out, transactionResponse(&items[i], media))
	}
	return out
}

func profileResponse(p *service.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		User:     userResponse(p.User),
		Client:   clientResponse(p.Client),
		Employee: employeeResponse(p.Employee),
	}
}

func pageMeta[T any](p service.Page[T]) dto.PageMeta {
	return dto.PageMeta{Total: p.Total, Page: p.Page, PageSize: p.PageSize, Pages: p.Pages}
}

func reviewResponse(r *domain.Review) dto.ReviewResponse {
	resp := dto.ReviewResponse{
		ID:        r.ID,
		Rating:    r.Rating,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Author != nil {
		resp.Author = r.Author.FullName()
	}
	return resp
}

func newsResponse(n *domain.News, media config.MediaConfig) dto.NewsResponse {
	resp := dto.NewsResponse{ID: n.ID, Title: n.Title, Summary: n.Summary, CreatedAt: n.CreatedAt}
	if n.Image != "" {
		resp.ImageURL = media.URLPrefix + n.Image
	}
	return resp
}

func promoList(items []domain.PromoCode) []dto.PromoCodeResponse {
	out := make([]dto.PromoCodeResponse, 0, len(items))
	for _, p := range items {
		out = append(out, dto.PromoCodeResponse{
			ID:          p.ID,
			Code:        p.Code,
			Discount:    p.Discount,
			Description: p.Description,
			Active:      p.Active,
			CreatedAt:   p.CreatedAt,
		})
	}
	return out
}
