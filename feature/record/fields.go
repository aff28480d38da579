package record

// BitableFields serializes a record into the remote table's field map. Empty
// values are omitted so that sparse postings never overwrite remote columns
// with blanks; the written-test checkbox is always written because false is a
// meaningful value there.
func BitableFields(r Record) map[string]any {
	fields := make(map[string]any)

	setText := func(canonical, value string) {
		if value != "" {
			fields[FieldMapping[canonical]] = value
		}
	}

	setText("company_name", r.CompanyName)
	setText("position", r.Position)
	setText("source", r.Source)
	setText("batch", r.Batch)
	setText("company_type", r.CompanyType)
	setText("education", r.Education)
	setText("referral_code", r.ReferralCode)

	if r.PublishDate != nil {
		fields[FieldMapping["publish_date"]] = r.PublishDate.Format(DateLayout)
	}
	if r.Deadline != nil {
		fields[FieldMapping["deadline"]] = r.Deadline.Format(DateLayout)
	}
	if r.Industry != "" {
		fields[FieldMapping["industry"]] = []string{r.Industry}
	}
	if len(r.City) > 0 {
		fields[FieldMapping["city"]] = r.City
	}
	if len(r.Target) > 0 {
		fields[FieldMapping["target"]] = r.Target
	}

	fields[FieldMapping["no_written_test"]] = r.NoWrittenTest

	return fields
}
