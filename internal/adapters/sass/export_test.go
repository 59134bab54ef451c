package sass

var FileURL = fileURL
