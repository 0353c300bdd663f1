package flight

const sampleItineraryJSON = `{
  "flight_details": [
    {
      "flight_number": "UA 1850",
      "class": "United Economy (H)",
      "departure_datetime": "Wed, Nov 08, 2023 11:10 AM",
      "arrival_datetime": "Wed, Nov 08, 2023 07:48 PM",
      "departure_city": "San Francisco, CA, US",
      "departure_city_airport_code": "SFO",
      "arrival_city": "Newark, NJ, US",
      "arrival_city_airport_code": "EWR",
      "operated_by": "United Airlines"
    }
  ],
  "passenger_details": [
    {"name": "Jordan Lee", "eticket_number": "0162345678901", "frequent_flyer": "UA-*****123", "seats": "23C"}
  ],
  "purchase_summary": {
    "method_of_payment": "Visa ending in 1234",
    "date_of_purchase": "Mon, Oct 02, 2023",
    "airfare": "250.00",
    "taxes_and_fees": "40.10",
    "total_per_passenger": "290.10",
    "total": "290.10 USD"
  }
}`

const sampleEmail = "From: United <unitedairlines@united.com>\r\n" +
	"To: jordan@example.com\r\n" +
	"Subject: Your trip confirmation\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<html><head><style>td { color: red; }</style></head><body>" +
	"<table class=\"x\"><tr><td>UA 1850</td><td>SFO</td><td>EWR</td></tr></table>" +
	"<p>Thanks for flying</p></body></html>\r\n"
