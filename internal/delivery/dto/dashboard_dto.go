package dto

type DashboardResponse struct {
	UpcomingAppointments []AppointmentResponse  `json:"upcoming_appointments"`
	Medications          []MedicationResponse   `json:"medications"`
	Exams                []ExamResponse         `json:"exams"`
	Notifications        []NotificationResponse `json:"notifications"`
}
